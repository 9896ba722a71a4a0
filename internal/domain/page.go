package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Page is the aggregate root for a scraped company page. PageID is the
// externally meaningful slug; ID is the surrogate row id and never leaves
// the persistence layer's control.
type Page struct {
	ID                uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	PageID            string                      `gorm:"size:255;uniqueIndex;not null;column:page_id" json:"page_id"`
	LinkedinID        string                      `gorm:"size:255;column:linkedin_id" json:"linkedin_id,omitempty"`
	Name              string                      `gorm:"size:500;not null;column:name" json:"name"`
	URL               string                      `gorm:"size:1000;not null;column:url" json:"url"`
	ProfilePictureURL string                      `gorm:"size:2000;column:profile_picture_url" json:"profile_picture_url,omitempty"`
	Description       string                      `gorm:"type:text;column:description" json:"description,omitempty"`
	Website           string                      `gorm:"size:1000;column:website" json:"website,omitempty"`
	Industry          string                      `gorm:"size:255;index;column:industry" json:"industry,omitempty"`
	FollowerCount     int                         `gorm:"default:0;index;column:follower_count" json:"follower_count"`
	Headcount         string                      `gorm:"size:100;column:headcount" json:"headcount,omitempty"`
	Specialities      datatypes.JSONSlice[string] `gorm:"column:specialities" json:"specialities"`
	Founded           string                      `gorm:"size:50;column:founded" json:"founded,omitempty"`
	Headquarters      string                      `gorm:"size:500;column:headquarters" json:"headquarters,omitempty"`
	CompanyType       string                      `gorm:"size:255;column:company_type" json:"company_type,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	ScrapedAt time.Time `gorm:"not null" json:"scraped_at"`
}

func (Page) TableName() string { return "pages" }
