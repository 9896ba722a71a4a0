package domain

import "time"

// Comment belongs to exactly one Post; page_id is denormalized so
// page-scoped listing and cascade deletes don't need a join.
type Comment struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CommentID        string     `gorm:"size:255;uniqueIndex;not null;column:comment_id" json:"comment_id"`
	PostID           string     `gorm:"size:255;index;not null;column:post_id" json:"post_id"`
	PageID           string     `gorm:"size:255;index;not null;column:page_id" json:"page_id"`
	AuthorName       string     `gorm:"size:500;not null;column:author_name" json:"author_name"`
	AuthorProfileURL string     `gorm:"size:1000;column:author_profile_url" json:"author_profile_url,omitempty"`
	AuthorHeadline   string     `gorm:"size:500;column:author_headline" json:"author_headline,omitempty"`
	Content          string     `gorm:"type:text;not null;column:content" json:"content"`
	LikeCount        int        `gorm:"default:0;column:like_count" json:"like_count"`
	CommentedAt      *time.Time `gorm:"column:commented_at" json:"commented_at,omitempty"`
	ScrapedAt        time.Time  `gorm:"not null" json:"scraped_at"`

	Post *Post `gorm:"foreignKey:PostID;references:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string { return "comments" }
