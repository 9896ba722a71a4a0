package domain

import "time"

// Employee has no stable external id; (page_id, name) is the natural key.
type Employee struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PageID            string    `gorm:"size:255;not null;uniqueIndex:idx_employees_page_name;column:page_id" json:"page_id"`
	Name              string    `gorm:"size:500;not null;uniqueIndex:idx_employees_page_name;column:name" json:"name"`
	Designation       string    `gorm:"size:500;column:designation" json:"designation,omitempty"`
	Location          string    `gorm:"size:500;column:location" json:"location,omitempty"`
	ProfileURL        string    `gorm:"size:1000;column:profile_url" json:"profile_url,omitempty"`
	ProfilePictureURL string    `gorm:"size:2000;column:profile_picture_url" json:"profile_picture_url,omitempty"`
	ScrapedAt         time.Time `gorm:"not null" json:"scraped_at"`

	Page *Page `gorm:"foreignKey:PageID;references:PageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Employee) TableName() string { return "employees" }
