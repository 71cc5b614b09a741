package database

import (
	"errors"

	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindByName matches the name exactly
func (r *TagRepo) FindByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Resolve returns one Tag per name, creating the ones that do not exist yet.
// A concurrent insert of the same name is absorbed by the unique index and re-read.
func (r *TagRepo) Resolve(names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := r.FindByName(name)
		if err == nil {
			tags = append(tags, *tag)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		created := models.Tag{Name: name}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&created).Error; err != nil {
			return nil, err
		}
		if created.ID == 0 {
			existing, err := r.FindByName(name)
			if err != nil {
				return nil, err
			}
			created = *existing
		}
		tags = append(tags, created)
	}
	return tags, nil
}
