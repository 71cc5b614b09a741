package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db              *gorm.DB
	userRepo        *UserRepo
	tagRepo         *TagRepo
	blogPostRepo    *BlogPostRepo
	projectRepo     *ProjectRepo
	interactionRepo *InteractionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		userRepo:        NewUserRepo(db),
		tagRepo:         NewTagRepo(db),
		blogPostRepo:    NewBlogPostRepo(db),
		projectRepo:     NewProjectRepo(db),
		interactionRepo: NewInteractionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) InteractionRepo() *InteractionRepo {
	return d.interactionRepo
}

// GetDB returns the underlying database connection
func (d Database) GetDB() *gorm.DB {
	return d.db
}

// WithContext returns a copy whose repositories run every query under ctx.
func (d Database) WithContext(ctx context.Context) Database {
	return New(d.db.WithContext(ctx))
}

// Transaction runs fn with repositories bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the database is reachable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
