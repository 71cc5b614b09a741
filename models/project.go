package models

import "time"

// Project represents a complete project with metadata
type Project struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey"`
	Title       string    `json:"title" db:"title" gorm:"type:varchar(255);not null;index"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url" gorm:"type:text"`
	ProjectURL  *string   `json:"project_url,omitempty" db:"project_url" gorm:"type:text"`
	GithubURL   *string   `json:"github_url,omitempty" db:"github_url" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	OwnerID     uint      `json:"owner_id" db:"owner_id" gorm:"not null;index"`

	Owner    *User            `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
	Comments []ProjectComment `json:"comments" gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE"`
	Likes    []ProjectLike    `json:"-" gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE"`
}
