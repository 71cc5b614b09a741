package models

import (
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

func (r RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// LoginRequest carries the form credentials for POST /auth/login
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func (r LoginRequest) Validate() error {
	return validate.Struct(r)
}

// CommentRequest is the payload for POST /{kind}/{id}/comment
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (r CommentRequest) Validate() error {
	return validate.Struct(r)
}

// ImageUpload is an image file received with a multipart form
type ImageUpload struct {
	Filename    string `validate:"required"`
	ContentType string
	Size        int64 `validate:"gte=0"`
	Body        io.Reader
}

// CreateBlogRequest is the typed form of the multipart POST /blog body.
// Tags holds the raw comma-separated list as submitted.
type CreateBlogRequest struct {
	Title    string       `validate:"required,max=255"`
	Subtitle *string      `validate:"omitempty,max=255"`
	Content  string       `validate:"required"`
	Tags     string       `validate:"max=2000"`
	Image    *ImageUpload `validate:"omitempty"`
}

func (r CreateBlogRequest) Validate() error {
	return validate.Struct(r)
}

// CreateProjectRequest is the typed form of the multipart POST /projects body
type CreateProjectRequest struct {
	Title       string       `validate:"required,max=255"`
	Description string       `validate:"required"`
	ProjectURL  *string      `validate:"omitempty,url"`
	GithubURL   *string      `validate:"omitempty,url"`
	Image       *ImageUpload `validate:"omitempty"`
}

func (r CreateProjectRequest) Validate() error {
	return validate.Struct(r)
}
