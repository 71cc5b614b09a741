package models

import (
	"time"
)

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey"`
	Title       string    `json:"title" db:"title" gorm:"type:varchar(255);not null;index"`
	Subtitle    *string   `json:"subtitle,omitempty" db:"subtitle" gorm:"type:varchar(255)"`
	Content     string    `json:"content" db:"content" gorm:"type:text;not null"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"not null;index"`
	Claps       int       `json:"claps" db:"claps" gorm:"not null;default:0"`
	ReadingTime int       `json:"reading_time" db:"reading_time" gorm:"not null;default:0"`
	OwnerID     uint      `json:"owner_id" db:"owner_id" gorm:"not null;index"`

	Owner    *User         `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
	Tags     []Tag         `json:"tags" gorm:"many2many:blog_tags;joinForeignKey:BlogID;joinReferences:TagID;constraint:OnDelete:CASCADE"`
	Comments []BlogComment `json:"comments" gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE"`
	Likes    []BlogLike    `json:"-" gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE"`
}

// BlogTagsTable is the join table between blog_posts and tags
const BlogTagsTable = "blog_tags"

// Tag is a label shared by any number of blog posts
type Tag struct {
	ID   uint   `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
}
