package database

import (
	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// hydrated preloads everything a BlogPostView needs
func (r *BlogPostRepo) hydrated() *gorm.DB {
	return r.db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("Comments.User").
		Preload("Likes")
}

// FindAll returns a page of blog posts, newest first
func (r *BlogPostRepo) FindAll(skip, limit int) ([]models.BlogPost, error) {
	skip, limit = clampPage(skip, limit)
	blogPosts := []models.BlogPost{}
	if limit == 0 {
		return blogPosts, nil
	}

	err := r.hydrated().
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&blogPosts).Error
	return blogPosts, err
}

// FindByID returns a fully hydrated blog post by its ID
func (r *BlogPostRepo) FindByID(id uint) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	if err := r.hydrated().First(&blogPost, id).Error; err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// FindOwnerID loads only the owner column
func (r *BlogPostRepo) FindOwnerID(id uint) (uint, error) {
	var blogPost models.BlogPost
	if err := r.db.Select("id", "owner_id").First(&blogPost, id).Error; err != nil {
		return 0, err
	}
	return blogPost.OwnerID, nil
}

// Add inserts a new blog post and links its already-persisted tags
func (r *BlogPostRepo) Add(blogPost *models.BlogPost) error {
	return r.db.Omit("Tags.*").Create(blogPost).Error
}

// Delete removes a blog post and every row that hangs off it. Callers run it inside a
// transaction.
func (r *BlogPostRepo) Delete(id uint) error {
	if err := r.db.Where("content_id = ?", id).Delete(&models.BlogComment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("content_id = ?", id).Delete(&models.BlogLike{}).Error; err != nil {
		return err
	}
	if err := r.db.Model(&models.BlogPost{ID: id}).Association("Tags").Clear(); err != nil {
		return err
	}

	result := r.db.Delete(&models.BlogPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementClaps adds one clap and returns the new total
func (r *BlogPostRepo) IncrementClaps(id uint) (int, error) {
	result := r.db.Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("claps", gorm.Expr("claps + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var blogPost models.BlogPost
	if err := r.db.Select("id", "claps").First(&blogPost, id).Error; err != nil {
		return 0, err
	}
	return blogPost.Claps, nil
}

// clampPage treats negative values as zero
func clampPage(skip, limit int) (int, int) {
	return max(skip, 0), max(limit, 0)
}
