package models

import "time"

// Comment is the row shape shared by blog_comments and project_comments.
// ContentID references the parent row of the owning ContentKind.
type Comment struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null;index"`
	UserID    uint      `json:"user_id" db:"user_id" gorm:"not null;index"`
	ContentID uint      `json:"content_id" db:"content_id" gorm:"not null;index"`

	User User `json:"user" gorm:"foreignKey:UserID;references:ID"`
}

// Like is the row shape shared by blog_likes and project_likes.
// The (user_id, content_id) pair is the primary key: one like per user and item.
type Like struct {
	UserID    uint `json:"user_id" db:"user_id" gorm:"primaryKey;autoIncrement:false"`
	ContentID uint `json:"content_id" db:"content_id" gorm:"primaryKey;autoIncrement:false;index"`
}

// BlogComment is a comment attached to a blog post
type BlogComment Comment

func (BlogComment) TableName() string { return BlogKind.CommentTable }

// ProjectComment is a comment attached to a project
type ProjectComment Comment

func (ProjectComment) TableName() string { return ProjectKind.CommentTable }

// BlogLike records that a user likes a blog post
type BlogLike Like

func (BlogLike) TableName() string { return BlogKind.LikeTable }

// ProjectLike records that a user likes a project
type ProjectLike Like

func (ProjectLike) TableName() string { return ProjectKind.LikeTable }
