package domain

import "time"

// Post belongs to exactly one Page via the page_id natural key.
type Post struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID       string     `gorm:"size:255;uniqueIndex;not null;column:post_id" json:"post_id"`
	PageID       string     `gorm:"size:255;index;not null;column:page_id" json:"page_id"`
	Content      string     `gorm:"type:text;column:content" json:"content,omitempty"`
	LikeCount    int        `gorm:"default:0;column:like_count" json:"like_count"`
	CommentCount int        `gorm:"default:0;column:comment_count" json:"comment_count"`
	ShareCount   int        `gorm:"default:0;column:share_count" json:"share_count"`
	MediaURL     string     `gorm:"size:2000;column:media_url" json:"media_url,omitempty"`
	MediaType    string     `gorm:"size:50;column:media_type" json:"media_type,omitempty"`
	PostURL      string     `gorm:"size:2000;column:post_url" json:"post_url,omitempty"`
	PostedAt     *time.Time `gorm:"column:posted_at" json:"posted_at,omitempty"`
	ScrapedAt    time.Time  `gorm:"not null" json:"scraped_at"`

	Page *Page `gorm:"foreignKey:PageID;references:PageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string { return "posts" }
