package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post. PublishedOn is the human-readable creation
// date ("January 02, 2006") fixed when the post is created; it is display
// data and never recomputed on edit.
type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Subtitle    string `gorm:"not null" json:"subtitle"`
	Body        string `gorm:"type:text;not null" json:"body"`
	ImageURL    string `json:"image_url"`
	PublishedOn string `gorm:"not null" json:"published_on"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
