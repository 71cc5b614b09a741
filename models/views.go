package models

import "time"

// UserView is the public shape of a user embedded in responses
type UserView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// CommentView is a comment with its author
type CommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	User      UserView  `json:"user"`
}

// BlogPostView is a fully hydrated blog post as seen by one viewer
type BlogPostView struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Subtitle    *string       `json:"subtitle"`
	Content     string        `json:"content"`
	ImageURL    *string       `json:"image_url"`
	CreatedAt   time.Time     `json:"created_at"`
	OwnerID     uint          `json:"owner_id"`
	Claps       int           `json:"claps"`
	ReadingTime int           `json:"reading_time"`
	Tags        []Tag         `json:"tags"`
	Comments    []CommentView `json:"comments"`
	LikesCount  int           `json:"likes_count"`
	IsLiked     bool          `json:"is_liked"`
}

// ProjectView is a fully hydrated project as seen by one viewer
type ProjectView struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ImageURL    *string       `json:"image_url"`
	ProjectURL  *string       `json:"project_url"`
	GithubURL   *string       `json:"github_url"`
	CreatedAt   time.Time     `json:"created_at"`
	OwnerID     uint          `json:"owner_id"`
	Comments    []CommentView `json:"comments"`
	LikesCount  int           `json:"likes_count"`
	IsLiked     bool          `json:"is_liked"`
}

// LikeAction is the outcome of a like toggle
type LikeAction string

const (
	Liked   LikeAction = "liked"
	Unliked LikeAction = "unliked"
)

// LikeResult reports the like state after a toggle
type LikeResult struct {
	Message    string     `json:"message"`
	Action     LikeAction `json:"action"`
	LikesCount int64      `json:"likes_count"`
	IsLiked    bool       `json:"is_liked"`
}

// ClapResult reports the legacy clap counter after a clap
type ClapResult struct {
	Claps int `json:"claps"`
}

// Token is the bearer credential returned by login
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewUserView(u User) UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

func NewCommentView(c Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UserID:    c.UserID,
		User:      NewUserView(c.User),
	}
}

// NewBlogPostView flattens a hydrated post. viewer may be nil for anonymous reads.
func NewBlogPostView(p BlogPost, viewer *User) BlogPostView {
	comments := make([]CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, NewCommentView(Comment(c)))
	}
	tags := p.Tags
	if tags == nil {
		tags = []Tag{}
	}

	isLiked := false
	if viewer != nil {
		for _, l := range p.Likes {
			if l.UserID == viewer.ID {
				isLiked = true
				break
			}
		}
	}

	return BlogPostView{
		ID:          p.ID,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Content:     p.Content,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		OwnerID:     p.OwnerID,
		Claps:       p.Claps,
		ReadingTime: p.ReadingTime,
		Tags:        tags,
		Comments:    comments,
		LikesCount:  len(p.Likes),
		IsLiked:     isLiked,
	}
}

// NewProjectView flattens a hydrated project. viewer may be nil for anonymous reads.
func NewProjectView(p Project, viewer *User) ProjectView {
	comments := make([]CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, NewCommentView(Comment(c)))
	}

	isLiked := false
	if viewer != nil {
		for _, l := range p.Likes {
			if l.UserID == viewer.ID {
				isLiked = true
				break
			}
		}
	}

	return ProjectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		ProjectURL:  p.ProjectURL,
		GithubURL:   p.GithubURL,
		CreatedAt:   p.CreatedAt,
		OwnerID:     p.OwnerID,
		Comments:    comments,
		LikesCount:  len(p.Likes),
		IsLiked:     isLiked,
	}
}
