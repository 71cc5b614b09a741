package database

import (
	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepo stores comments and likes for any ContentKind. Every method addresses
// the kind's tables explicitly, so one implementation serves blog posts and projects.
type InteractionRepo struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) *InteractionRepo {
	return &InteractionRepo{db}
}

// ContentExists reports whether the parent row exists
func (r *InteractionRepo) ContentExists(kind models.ContentKind, contentID uint) (bool, error) {
	var count int64
	err := r.db.Table(kind.Table).Where("id = ?", contentID).Count(&count).Error
	return count > 0, err
}

// AddComment inserts comment into the kind's comment table. The author association is
// never written.
func (r *InteractionRepo) AddComment(kind models.ContentKind, comment *models.Comment) error {
	return r.db.Table(kind.CommentTable).Omit(clause.Associations).Create(comment).Error
}

// AddLike inserts the (user, content) pair. It returns false when the pair already
// existed, which is how a lost race between two toggles shows up.
func (r *InteractionRepo) AddLike(kind models.ContentKind, userID, contentID uint) (bool, error) {
	result := r.db.Table(kind.LikeTable).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: userID, ContentID: contentID})
	return result.RowsAffected > 0, result.Error
}

// RemoveLike deletes the (user, content) pair and reports whether a row was removed
func (r *InteractionRepo) RemoveLike(kind models.ContentKind, userID, contentID uint) (bool, error) {
	result := r.db.Table(kind.LikeTable).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&models.Like{})
	return result.RowsAffected > 0, result.Error
}

func (r *InteractionRepo) CountLikes(kind models.ContentKind, contentID uint) (int64, error) {
	var count int64
	err := r.db.Table(kind.LikeTable).Where("content_id = ?", contentID).Count(&count).Error
	return count, err
}

// AdjustClaps moves the legacy counter by delta, never below zero. Kinds that do not
// track claps are left alone.
func (r *InteractionRepo) AdjustClaps(kind models.ContentKind, contentID uint, delta int) error {
	if !kind.TracksClaps || delta == 0 {
		return nil
	}

	expr := gorm.Expr("claps + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN claps + ? > 0 THEN claps + ? ELSE 0 END", delta, delta)
	}
	return r.db.Table(kind.Table).Where("id = ?", contentID).UpdateColumn("claps", expr).Error
}
