package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

const notifyTimeout = 30 * time.Second

// InteractionService handles comments and like toggles for every ContentKind
type InteractionService struct {
	db       database.Database
	notifier CommentNotifier
	logger   zerolog.Logger
}

func NewInteractionService(db database.Database, notifier CommentNotifier) *InteractionService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &InteractionService{
		db:       db,
		notifier: notifier,
		logger:   log.With().Str("serviceName", "interactionService").Logger(),
	}
}

// AddComment attaches a comment by actor to the content. The author in the returned view
// is captured from actor before the write.
func (s *InteractionService) AddComment(ctx context.Context, kind models.ContentKind, contentID uint, req models.CommentRequest, actor *models.User) (*models.CommentView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, errs.NewValidationError(err)
	}

	author := models.NewUserView(*actor)
	comment := models.Comment{
		Content:   req.Content,
		UserID:    actor.ID,
		ContentID: contentID,
	}

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		exists, err := tx.InteractionRepo().ContentExists(kind, contentID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewNotFound(kind.Name)
		}
		return tx.InteractionRepo().AddComment(kind, &comment)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", kind.Name+" comment", err)
	}

	view := models.CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UserID:    comment.UserID,
		User:      author,
	}
	s.notify(ctx, kind, contentID, view)
	return &view, nil
}

// notify runs after commit and outlives the request
func (s *InteractionService) notify(ctx context.Context, kind models.ContentKind, contentID uint, view models.CommentView) {
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyComment(notifyCtx, kind, contentID, view); err != nil {
			s.logger.Warn().Err(err).Str("kind", kind.Name).Uint("contentID", contentID).Msg("comment notification failed")
		}
	}()
}

// ToggleLike flips actor's like on the content. Blog posts also move their clap counter
// by one in the same direction. A like that another request inserted first is reported
// as liked without touching the counter.
func (s *InteractionService) ToggleLike(ctx context.Context, kind models.ContentKind, contentID uint, actor *models.User) (*models.LikeResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var result models.LikeResult
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		repo := tx.InteractionRepo()

		exists, err := repo.ContentExists(kind, contentID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewNotFound(kind.Name)
		}

		removed, err := repo.RemoveLike(kind, actor.ID, contentID)
		if err != nil {
			return err
		}
		if removed {
			if err := repo.AdjustClaps(kind, contentID, -1); err != nil {
				return err
			}
			result = models.LikeResult{Message: "Unliked", Action: models.Unliked, IsLiked: false}
		} else {
			added, err := repo.AddLike(kind, actor.ID, contentID)
			if err != nil {
				return err
			}
			if added {
				if err := repo.AdjustClaps(kind, contentID, 1); err != nil {
					return err
				}
			}
			result = models.LikeResult{Message: "Liked", Action: models.Liked, IsLiked: true}
		}

		result.LikesCount, err = repo.CountLikes(kind, contentID)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("toggle", kind.Name+" like", err)
	}
	return &result, nil
}
