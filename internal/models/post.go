// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// AnonymousAuthor is the fallback author name when a post is created or
// updated with a blank author field.
const AnonymousAuthor = "Anonymous"

// Post represents a single blog entry. Content is a rich-text (HTML) payload
// and may embed images inline or by URL. Date is the canonical "published"
// display date and equals CreatedAt unless it was overridden at creation.
type Post struct {
	ID      int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title   string `gorm:"column:title;not null" json:"title"`
	Content string `gorm:"column:content;type:text;not null" json:"content"`
	Author  string `gorm:"column:author;not null;default:'Anonymous'" json:"author"`
	// Timestamps are managed by the store, not by GORM's auto-tracking:
	// CreatedAt never changes after creation and UpdatedAt is only touched
	// by successful updates.
	Date      time.Time `gorm:"column:date;not null;autoCreateTime:false;autoUpdateTime:false" json:"date"`
	CreatedAt time.Time `gorm:"column:createdAt;not null;autoCreateTime:false;autoUpdateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null;autoCreateTime:false;autoUpdateTime:false" json:"updatedAt"`
}

// TableName keeps the table and column names aligned with the persisted
// artifact layout: posts(id, title, content, author, date, createdAt, updatedAt).
func (Post) TableName() string { return "posts" }

// Clone returns a copy of the post so callers cannot mutate store-owned state.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
