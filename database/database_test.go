package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/models"
)

func newTestDB(t *testing.T) Database {
	t.Helper()
	db, err := Connect(map[string]string{
		"DB_TYPE": "sqlite",
		"DB_PATH": filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { Close(db) })
	return New(db)
}

func seedUser(t *testing.T, d Database, username string, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		IsAdmin:        isAdmin,
	}
	require.NoError(t, d.UserRepo().Add(user))
	return user
}

func TestConnectRejectsUnknownType(t *testing.T) {
	_, err := Connect(map[string]string{"DB_TYPE": "oracle"})
	assert.ErrorContains(t, err, "unsupported DB_TYPE")
}

func TestTagRepoResolve(t *testing.T) {
	d := newTestDB(t)

	first, err := d.TagRepo().Resolve([]string{"go", "rust"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.NotZero(t, first[0].ID)

	again, err := d.TagRepo().Resolve([]string{"rust", "Go"})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, first[1].ID, again[0].ID, "existing tag is reused")
	assert.NotEqual(t, first[0].ID, again[1].ID, "names are case-sensitive")

	var count int64
	require.NoError(t, d.GetDB().Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestBlogPostRepo(t *testing.T) {
	d := newTestDB(t)
	owner := seedUser(t, d, "admin", true)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tags, err := d.TagRepo().Resolve([]string{"go"})
	require.NoError(t, err)

	var ids []uint
	for i := 0; i < 3; i++ {
		post := &models.BlogPost{
			Title:     "post",
			Content:   "body",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			OwnerID:   owner.ID,
			Tags:      tags,
		}
		require.NoError(t, d.BlogPostRepo().Add(post))
		ids = append(ids, post.ID)
	}

	t.Run("newest first with pagination", func(t *testing.T) {
		posts, err := d.BlogPostRepo().FindAll(0, 100)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
		assert.Len(t, posts[0].Tags, 1)

		page, err := d.BlogPostRepo().FindAll(1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, ids[1], page[0].ID)
	})

	t.Run("out of range pages clamp", func(t *testing.T) {
		posts, err := d.BlogPostRepo().FindAll(-5, 2)
		require.NoError(t, err)
		assert.Len(t, posts, 2)

		posts, err = d.BlogPostRepo().FindAll(0, -1)
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.NotNil(t, posts)

		posts, err = d.BlogPostRepo().FindAll(10, 10)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("claps", func(t *testing.T) {
		claps, err := d.BlogPostRepo().IncrementClaps(ids[0])
		require.NoError(t, err)
		assert.Equal(t, 1, claps)

		_, err = d.BlogPostRepo().IncrementClaps(9999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("delete cascades", func(t *testing.T) {
		ir := d.InteractionRepo()
		require.NoError(t, ir.AddComment(models.BlogKind, &models.Comment{Content: "hi", UserID: owner.ID, ContentID: ids[0]}))
		_, err := ir.AddLike(models.BlogKind, owner.ID, ids[0])
		require.NoError(t, err)

		err = d.Transaction(context.Background(), func(tx Database) error {
			return tx.BlogPostRepo().Delete(ids[0])
		})
		require.NoError(t, err)

		for _, table := range []string{"blog_comments", "blog_likes"} {
			var n int64
			require.NoError(t, d.GetDB().Table(table).Where("content_id = ?", ids[0]).Count(&n).Error)
			assert.Zero(t, n, table)
		}
		var n int64
		require.NoError(t, d.GetDB().Table(models.BlogTagsTable).Where("blog_id = ?", ids[0]).Count(&n).Error)
		assert.Zero(t, n)

		_, err = d.BlogPostRepo().FindByID(ids[0])
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		err = d.BlogPostRepo().Delete(ids[0])
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestProjectRepoInsertionOrder(t *testing.T) {
	d := newTestDB(t)
	owner := seedUser(t, d, "admin", true)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uint
	for i := 0; i < 3; i++ {
		p := &models.Project{Title: "p", Description: "d", OwnerID: owner.ID, CreatedAt: base.Add(-time.Duration(i) * time.Hour)}
		require.NoError(t, d.ProjectRepo().Add(p))
		ids = append(ids, p.ID)
	}

	projects, err := d.ProjectRepo().FindAll(0, 10)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, ids, []uint{projects[0].ID, projects[1].ID, projects[2].ID})

	ownerID, err := d.ProjectRepo().FindOwnerID(ids[1])
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID)
}

func TestInteractionRepo(t *testing.T) {
	d := newTestDB(t)
	user := seedUser(t, d, "alice", false)
	owner := seedUser(t, d, "admin", true)
	post := &models.BlogPost{Title: "t", Content: "c", OwnerID: owner.ID}
	require.NoError(t, d.BlogPostRepo().Add(post))
	ir := d.InteractionRepo()

	t.Run("content exists", func(t *testing.T) {
		ok, err := ir.ContentExists(models.BlogKind, post.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = ir.ContentExists(models.ProjectKind, post.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate like is a no-op", func(t *testing.T) {
		added, err := ir.AddLike(models.BlogKind, user.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = ir.AddLike(models.BlogKind, user.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, added)

		count, err := ir.CountLikes(models.BlogKind, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		removed, err := ir.RemoveLike(models.BlogKind, user.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = ir.RemoveLike(models.BlogKind, user.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("claps never go below zero", func(t *testing.T) {
		require.NoError(t, ir.AdjustClaps(models.BlogKind, post.ID, 1))
		require.NoError(t, ir.AdjustClaps(models.BlogKind, post.ID, -1))
		require.NoError(t, ir.AdjustClaps(models.BlogKind, post.ID, -1))

		reloaded, err := d.BlogPostRepo().FindByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, reloaded.Claps)
	})

	t.Run("comment gets id and timestamp", func(t *testing.T) {
		c := &models.Comment{Content: "nice", UserID: user.ID, ContentID: post.ID}
		require.NoError(t, ir.AddComment(models.BlogKind, c))
		assert.NotZero(t, c.ID)
		assert.False(t, c.CreatedAt.IsZero())

		reloaded, err := d.BlogPostRepo().FindByID(post.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Comments, 1)
		assert.Equal(t, "alice", reloaded.Comments[0].User.Username)
	})
}

func TestTransactionRollsBack(t *testing.T) {
	d := newTestDB(t)
	err := d.Transaction(context.Background(), func(tx Database) error {
		seedUser(t, tx, "bob", false)
		return gorm.ErrInvalidData
	})
	assert.ErrorIs(t, err, gorm.ErrInvalidData)

	_, err = d.UserRepo().FindByUsername("bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, d.Ping(context.Background()))
}
