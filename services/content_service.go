package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/storage"
)

// ContentService owns the lifecycle of blog posts and projects
type ContentService struct {
	db     database.Database
	images storage.ImageStore
	logger zerolog.Logger
}

func NewContentService(db database.Database, images storage.ImageStore) *ContentService {
	return &ContentService{
		db:     db,
		images: images,
		logger: log.With().Str("serviceName", "contentService").Logger(),
	}
}

func requireActor(actor *models.User) error {
	if actor == nil {
		return errs.NewUnauthenticated("Not authenticated")
	}
	return nil
}

func requireAdmin(actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin {
		return errs.NewForbidden("Not enough permissions")
	}
	return nil
}

// storeImage uploads img under a fresh name. It returns nil values when there is no image.
func (s *ContentService) storeImage(ctx context.Context, img *models.ImageUpload) (*string, string, error) {
	if img == nil {
		return nil, "", nil
	}

	name, err := BuildImageName(img.Filename)
	if err != nil {
		return nil, "", errs.NewInvalidFieldError("image", "filename must have an extension")
	}

	url, err := s.images.Save(ctx, name, img.Body, img.Size, img.ContentType)
	if err != nil {
		return nil, "", errs.NewStorageError("store image", err)
	}
	return &url, name, nil
}

// discardImage removes an image whose database row never committed. Failures leave an
// orphaned file behind and are only logged.
func (s *ContentService) discardImage(name string) {
	if name == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.images.Delete(ctx, name); err != nil {
		s.logger.Warn().Err(err).Str("image", name).Msg("failed to clean up orphaned image")
	}
}

func (s *ContentService) ListBlogs(ctx context.Context, skip, limit int, viewer *models.User) ([]models.BlogPostView, error) {
	posts, err := s.db.WithContext(ctx).BlogPostRepo().FindAll(skip, limit)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog posts", err)
	}

	views := make([]models.BlogPostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, models.NewBlogPostView(post, viewer))
	}
	return views, nil
}

func (s *ContentService) GetBlog(ctx context.Context, id uint, viewer *models.User) (*models.BlogPostView, error) {
	post, err := s.db.WithContext(ctx).BlogPostRepo().FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("blog")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}

	view := models.NewBlogPostView(*post, viewer)
	return &view, nil
}

// CreateBlog stores a new post for an admin. The image is uploaded before the
// transaction and removed again if the transaction fails.
func (s *ContentService) CreateBlog(ctx context.Context, req models.CreateBlogRequest, actor *models.User) (*models.BlogPostView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, errs.NewValidationError(err)
	}

	imageURL, imageName, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	post := models.BlogPost{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Content:     req.Content,
		ImageURL:    imageURL,
		ReadingTime: ReadingTime(req.Content),
		OwnerID:     actor.ID,
	}
	tagNames := ParseTagList(req.Tags)

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		tags, err := tx.TagRepo().Resolve(tagNames)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.BlogPostRepo().Add(&post)
	})
	if err != nil {
		s.discardImage(imageName)
		return nil, errs.NewDatabaseError("create", "blog post", err)
	}

	s.logger.Info().Uint("blogID", post.ID).Int("tags", len(post.Tags)).Msg("blog post created")
	return s.GetBlog(ctx, post.ID, actor)
}

// ClapBlog adds one legacy clap. It needs no authentication and leaves likes untouched.
func (s *ContentService) ClapBlog(ctx context.Context, id uint) (*models.ClapResult, error) {
	claps, err := s.db.WithContext(ctx).BlogPostRepo().IncrementClaps(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("blog")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("clap", "blog post", err)
	}
	return &models.ClapResult{Claps: claps}, nil
}

// DeleteBlog removes a post and its comments, likes and tag links. Only the owner may
// delete; being an admin is not enough.
func (s *ContentService) DeleteBlog(ctx context.Context, id uint, actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		ownerID, err := tx.BlogPostRepo().FindOwnerID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("blog")
		}
		if err != nil {
			return err
		}
		if ownerID != actor.ID {
			return errs.NewForbidden("Not authorized to delete this blog")
		}
		return tx.BlogPostRepo().Delete(id)
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "blog post", err)
	}

	s.logger.Info().Uint("blogID", id).Uint("userID", actor.ID).Msg("blog post deleted")
	return nil
}

func (s *ContentService) ListProjects(ctx context.Context, skip, limit int, viewer *models.User) ([]models.ProjectView, error) {
	projects, err := s.db.WithContext(ctx).ProjectRepo().FindAll(skip, limit)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}

	views := make([]models.ProjectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, models.NewProjectView(project, viewer))
	}
	return views, nil
}

func (s *ContentService) GetProject(ctx context.Context, id uint, viewer *models.User) (*models.ProjectView, error) {
	project, err := s.db.WithContext(ctx).ProjectRepo().FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}

	view := models.NewProjectView(*project, viewer)
	return &view, nil
}

func (s *ContentService) CreateProject(ctx context.Context, req models.CreateProjectRequest, actor *models.User) (*models.ProjectView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, errs.NewValidationError(err)
	}

	imageURL, imageName, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		ProjectURL:  req.ProjectURL,
		GithubURL:   req.GithubURL,
		OwnerID:     actor.ID,
	}

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		return tx.ProjectRepo().Add(&project)
	})
	if err != nil {
		s.discardImage(imageName)
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	s.logger.Info().Uint("projectID", project.ID).Msg("project created")
	return s.GetProject(ctx, project.ID, actor)
}

func (s *ContentService) DeleteProject(ctx context.Context, id uint, actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		ownerID, err := tx.ProjectRepo().FindOwnerID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("project")
		}
		if err != nil {
			return err
		}
		if ownerID != actor.ID {
			return errs.NewForbidden("Not authorized to delete this project")
		}
		return tx.ProjectRepo().Delete(id)
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}

	s.logger.Info().Uint("projectID", id).Uint("userID", actor.ID).Msg("project deleted")
	return nil
}
