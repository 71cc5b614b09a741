package database

import (
	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func (r *ProjectRepo) hydrated() *gorm.DB {
	return r.db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("Comments.User").
		Preload("Likes")
}

// FindAll returns a page of projects in insertion order
func (r *ProjectRepo) FindAll(skip, limit int) ([]models.Project, error) {
	skip, limit = clampPage(skip, limit)
	projects := []models.Project{}
	if limit == 0 {
		return projects, nil
	}

	err := r.hydrated().
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// FindByID returns a fully hydrated project by its ID
func (r *ProjectRepo) FindByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.hydrated().First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepo) FindOwnerID(id uint) (uint, error) {
	var project models.Project
	if err := r.db.Select("id", "owner_id").First(&project, id).Error; err != nil {
		return 0, err
	}
	return project.OwnerID, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Delete removes a project with its comments and likes. Callers run it inside a transaction.
func (r *ProjectRepo) Delete(id uint) error {
	if err := r.db.Where("content_id = ?", id).Delete(&models.ProjectComment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("content_id = ?", id).Delete(&models.ProjectLike{}).Error; err != nil {
		return err
	}

	result := r.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
