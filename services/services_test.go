package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/storage"
)

type recordingNotifier struct {
	mu       sync.Mutex
	comments []models.CommentView
	done     chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 16)}
}

func (n *recordingNotifier) NotifyComment(ctx context.Context, kind models.ContentKind, contentID uint, comment models.CommentView) error {
	n.mu.Lock()
	n.comments = append(n.comments, comment)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

type testEnv struct {
	db          database.Database
	uploadDir   string
	auth        *AuthService
	content     *ContentService
	interaction *InteractionService
	notifier    *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gormDB, err := database.Connect(map[string]string{
		"DB_TYPE": "sqlite",
		"DB_PATH": filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(gormDB))
	t.Cleanup(func() { database.Close(gormDB) })

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	store, err := storage.NewLocalStore(uploadDir, "http://localhost:8000")
	require.NoError(t, err)

	db := database.New(gormDB)
	notifier := newRecordingNotifier()
	return &testEnv{
		db:          db,
		uploadDir:   uploadDir,
		auth:        NewAuthService(db, auth.NewTokenIssuer("secret", time.Hour)),
		content:     NewContentService(db, store),
		interaction: NewInteractionService(db, notifier),
		notifier:    notifier,
	}
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createBlog(t *testing.T, owner *models.User, req models.CreateBlogRequest) *models.BlogPostView {
	t.Helper()
	if req.Title == "" {
		req.Title = "A post"
	}
	if req.Content == "" {
		req.Content = "some words here"
	}
	post, err := e.content.CreateBlog(context.Background(), req, owner)
	require.NoError(t, err)
	return post
}

func (e *testEnv) count(t *testing.T, table string, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := e.db.GetDB().Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("admin bootstrap is case-insensitive", func(t *testing.T) {
		assert.True(t, env.register(t, "AdMiN").IsAdmin)
		assert.False(t, env.register(t, "bob").IsAdmin)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := env.auth.Register(ctx, models.RegisterRequest{Username: "bob", Email: "other@example.com", Password: "pw"})
		require.Error(t, err)
		assert.True(t, errs.IsConflict(err))
		assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
		assert.Contains(t, err.Error(), "Username already registered")
		assert.Equal(t, int64(1), env.count(t, "users", "username = ?", "bob"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, models.RegisterRequest{Username: "carol", Email: "bob@example.com", Password: "pw"})
		require.Error(t, err)
		assert.True(t, errs.IsConflict(err))
		assert.Contains(t, err.Error(), "Email already registered")
		assert.Equal(t, int64(0), env.count(t, "users", "username = ?", "carol"))
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := env.auth.Register(ctx, models.RegisterRequest{Username: "dave", Email: "not-an-email", Password: "pw"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
		assert.False(t, errs.IsConflict(err))
	})
}

func TestLoginAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "admin")

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, errs.StatusCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.auth.Login(ctx, models.LoginRequest{Username: "ghost", Password: "password"})
		assert.Equal(t, http.StatusUnauthorized, errs.StatusCode(err))
	})

	t.Run("token resolves to the user", func(t *testing.T) {
		token, err := env.auth.Login(ctx, models.LoginRequest{Username: "admin", Password: "password"})
		require.NoError(t, err)
		assert.Equal(t, "bearer", token.TokenType)

		user, err := env.auth.Authenticate(ctx, token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Username)
		assert.True(t, user.IsAdmin)
	})

	t.Run("bad tokens", func(t *testing.T) {
		_, err := env.auth.Authenticate(ctx, "")
		assert.ErrorIs(t, err, errs.ErrMissingToken)

		_, err = env.auth.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, errs.ErrInvalidToken)

		orphan, err := auth.NewTokenIssuer("secret", time.Hour).Issue("ghost", true)
		require.NoError(t, err)
		_, err = env.auth.Authenticate(ctx, orphan)
		assert.ErrorIs(t, err, errs.ErrInvalidToken)
	})
}

func TestCreateBlog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin")
	reader := env.register(t, "reader")

	t.Run("reading time rounds up", func(t *testing.T) {
		post := env.createBlog(t, admin, models.CreateBlogRequest{Content: "one two three four five six seven"})
		assert.Equal(t, 1, post.ReadingTime)
		assert.Equal(t, admin.ID, post.OwnerID)
		assert.Empty(t, post.Comments)
		assert.NotNil(t, post.Tags)
	})

	t.Run("repeated tags create one row each", func(t *testing.T) {
		post := env.createBlog(t, admin, models.CreateBlogRequest{Tags: "go, go, rust, ,"})
		require.Len(t, post.Tags, 2)
		assert.Equal(t, int64(2), env.count(t, "tags", ""))
		assert.Equal(t, int64(2), env.count(t, models.BlogTagsTable, "blog_id = ?", post.ID))

		again := env.createBlog(t, admin, models.CreateBlogRequest{Tags: "rust"})
		require.Len(t, again.Tags, 1)
		assert.Equal(t, int64(2), env.count(t, "tags", ""))
	})

	t.Run("image is stored under a new name", func(t *testing.T) {
		post := env.createBlog(t, admin, models.CreateBlogRequest{
			Image: &models.ImageUpload{Filename: "cover.PNG", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")},
		})
		require.NotNil(t, post.ImageURL)
		assert.True(t, strings.HasPrefix(*post.ImageURL, "http://localhost:8000/uploads/"))
		assert.True(t, strings.HasSuffix(*post.ImageURL, ".png"))

		name := filepath.Base(*post.ImageURL)
		data, err := os.ReadFile(filepath.Join(env.uploadDir, name))
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))
	})

	t.Run("image without extension is rejected", func(t *testing.T) {
		before := env.count(t, "blog_posts", "")
		_, err := env.content.CreateBlog(ctx, models.CreateBlogRequest{
			Title: "t", Content: "c",
			Image: &models.ImageUpload{Filename: "cover", Body: strings.NewReader("x")},
		}, admin)
		assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
		assert.Equal(t, before, env.count(t, "blog_posts", ""))
	})

	t.Run("failed insert removes the uploaded image", func(t *testing.T) {
		entries, err := os.ReadDir(env.uploadDir)
		require.NoError(t, err)
		before := len(entries)

		ghost := &models.User{ID: 9999, Username: "ghost", IsAdmin: true}
		_, err = env.content.CreateBlog(ctx, models.CreateBlogRequest{
			Title: "t", Content: "c",
			Image: &models.ImageUpload{Filename: "x.jpg", Body: strings.NewReader("x")},
		}, ghost)
		require.Error(t, err)

		entries, err = os.ReadDir(env.uploadDir)
		require.NoError(t, err)
		assert.Len(t, entries, before)
	})

	t.Run("authorization", func(t *testing.T) {
		_, err := env.content.CreateBlog(ctx, models.CreateBlogRequest{Title: "t", Content: "c"}, nil)
		assert.True(t, errs.IsUnauthenticated(err))
		assert.Equal(t, http.StatusUnauthorized, errs.StatusCode(err))

		_, err = env.content.CreateBlog(ctx, models.CreateBlogRequest{Title: "t", Content: "c"}, reader)
		assert.True(t, errs.IsForbidden(err))
		assert.Equal(t, http.StatusForbidden, errs.StatusCode(err))

		_, err = env.content.CreateProject(ctx, models.CreateProjectRequest{Title: "t", Description: "d"}, reader)
		assert.True(t, errs.IsForbidden(err))
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := env.content.CreateBlog(ctx, models.CreateBlogRequest{Content: "c"}, admin)
		assert.ErrorIs(t, err, errs.ErrMissingRequiredField)
	})
}

func TestReadsAndClaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin")
	post := env.createBlog(t, admin, models.CreateBlogRequest{})

	t.Run("get missing", func(t *testing.T) {
		_, err := env.content.GetBlog(ctx, 4242, nil)
		assert.True(t, errs.IsNotFound(err))
		_, err = env.content.GetProject(ctx, 4242, nil)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("clap increments by one without liking", func(t *testing.T) {
		res, err := env.content.ClapBlog(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Claps)

		got, err := env.content.GetBlog(ctx, post.ID, admin)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Claps)
		assert.Zero(t, got.LikesCount)
		assert.False(t, got.IsLiked)

		_, err = env.content.ClapBlog(ctx, 4242)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("list shows viewer like state", func(t *testing.T) {
		_, err := env.interaction.ToggleLike(ctx, models.BlogKind, post.ID, admin)
		require.NoError(t, err)

		mine, err := env.content.ListBlogs(ctx, 0, 100, admin)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.True(t, mine[0].IsLiked)
		assert.Equal(t, 1, mine[0].LikesCount)

		anon, err := env.content.ListBlogs(ctx, 0, 100, nil)
		require.NoError(t, err)
		assert.False(t, anon[0].IsLiked)

		none, err := env.content.ListBlogs(ctx, 5, 100, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin")
	post := env.createBlog(t, admin, models.CreateBlogRequest{})
	project, err := env.content.CreateProject(ctx, models.CreateProjectRequest{Title: "p", Description: "d"}, admin)
	require.NoError(t, err)

	for _, tc := range []struct {
		kind models.ContentKind
		id   uint
	}{
		{models.BlogKind, post.ID},
		{models.ProjectKind, project.ID},
	} {
		t.Run(tc.kind.Name+" toggle twice restores state", func(t *testing.T) {
			liked, err := env.interaction.ToggleLike(ctx, tc.kind, tc.id, admin)
			require.NoError(t, err)
			assert.Equal(t, models.Liked, liked.Action)
			assert.Equal(t, "Liked", liked.Message)
			assert.True(t, liked.IsLiked)
			assert.Equal(t, int64(1), liked.LikesCount)

			unliked, err := env.interaction.ToggleLike(ctx, tc.kind, tc.id, admin)
			require.NoError(t, err)
			assert.Equal(t, models.Unliked, unliked.Action)
			assert.False(t, unliked.IsLiked)
			assert.Equal(t, int64(0), unliked.LikesCount)
		})

		t.Run(tc.kind.Name+" missing content", func(t *testing.T) {
			_, err := env.interaction.ToggleLike(ctx, tc.kind, 4242, admin)
			assert.True(t, errs.IsNotFound(err))
			assert.Equal(t, http.StatusNotFound, errs.StatusCode(err))
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := env.interaction.ToggleLike(ctx, models.BlogKind, post.ID, nil)
		assert.True(t, errs.IsUnauthenticated(err))
	})

	t.Run("many users like then unlike", func(t *testing.T) {
		_, err := env.content.ClapBlog(ctx, post.ID)
		require.NoError(t, err)
		before, err := env.content.GetBlog(ctx, post.ID, nil)
		require.NoError(t, err)

		var users []*models.User
		for i := 0; i < 4; i++ {
			users = append(users, env.register(t, fmt.Sprintf("user%d", i)))
		}
		for i, u := range users {
			res, err := env.interaction.ToggleLike(ctx, models.BlogKind, post.ID, u)
			require.NoError(t, err)
			assert.Equal(t, int64(i+1), res.LikesCount)
		}
		mid, err := env.content.GetBlog(ctx, post.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, before.Claps+len(users), mid.Claps)

		var last *models.LikeResult
		for _, u := range users {
			last, err = env.interaction.ToggleLike(ctx, models.BlogKind, post.ID, u)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(0), last.LikesCount)

		after, err := env.content.GetBlog(ctx, post.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, before.Claps, after.Claps)
		assert.Zero(t, after.LikesCount)
	})

	t.Run("like row written elsewhere is removed by the next toggle", func(t *testing.T) {
		u := env.register(t, "racer")
		_, err := env.db.InteractionRepo().AddLike(models.BlogKind, u.ID, post.ID)
		require.NoError(t, err)
		before, err := env.content.GetBlog(ctx, post.ID, nil)
		require.NoError(t, err)

		res, err := env.interaction.ToggleLike(ctx, models.BlogKind, post.ID, u)
		require.NoError(t, err)
		assert.Equal(t, models.Unliked, res.Action)

		after, err := env.content.GetBlog(ctx, post.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, max(before.Claps-1, 0), after.Claps)
	})
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin")
	reader := env.register(t, "reader")
	post := env.createBlog(t, admin, models.CreateBlogRequest{})
	project, err := env.content.CreateProject(ctx, models.CreateProjectRequest{Title: "p", Description: "d"}, admin)
	require.NoError(t, err)

	t.Run("author is the caller", func(t *testing.T) {
		snapshot := *reader
		view, err := env.interaction.AddComment(ctx, models.BlogKind, post.ID, models.CommentRequest{Content: "Great read"}, &snapshot)
		require.NoError(t, err)
		snapshot.Username = "renamed"

		assert.NotZero(t, view.ID)
		assert.Equal(t, "Great read", view.Content)
		assert.Equal(t, reader.ID, view.UserID)
		assert.Equal(t, "reader", view.User.Username)
		assert.False(t, view.CreatedAt.IsZero())

		select {
		case <-env.notifier.done:
		case <-time.After(5 * time.Second):
			t.Fatal("notifier was not called")
		}
	})

	t.Run("comments are newest first", func(t *testing.T) {
		_, err := env.interaction.AddComment(ctx, models.ProjectKind, project.ID, models.CommentRequest{Content: "first"}, reader)
		require.NoError(t, err)
		_, err = env.interaction.AddComment(ctx, models.ProjectKind, project.ID, models.CommentRequest{Content: "second"}, admin)
		require.NoError(t, err)

		got, err := env.content.GetProject(ctx, project.ID, nil)
		require.NoError(t, err)
		require.Len(t, got.Comments, 2)
		assert.Equal(t, "second", got.Comments[0].Content)
		assert.Equal(t, "admin", got.Comments[0].User.Username)
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := env.interaction.AddComment(ctx, models.BlogKind, 4242, models.CommentRequest{Content: "x"}, reader)
		assert.True(t, errs.IsNotFound(err))
		assert.Equal(t, int64(0), env.count(t, "blog_comments", "content_id = ?", 4242))
	})

	t.Run("empty body and anonymous caller", func(t *testing.T) {
		_, err := env.interaction.AddComment(ctx, models.BlogKind, post.ID, models.CommentRequest{}, reader)
		assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))

		_, err = env.interaction.AddComment(ctx, models.BlogKind, post.ID, models.CommentRequest{Content: "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, errs.StatusCode(err))
	})
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "admin")
	reader := env.register(t, "reader")
	otherAdmin := &models.User{ID: reader.ID + 100, Username: "root", IsAdmin: true}

	post := env.createBlog(t, owner, models.CreateBlogRequest{Tags: "go"})
	_, err := env.interaction.AddComment(ctx, models.BlogKind, post.ID, models.CommentRequest{Content: "hi"}, reader)
	require.NoError(t, err)
	_, err = env.interaction.ToggleLike(ctx, models.BlogKind, post.ID, reader)
	require.NoError(t, err)

	t.Run("anonymous", func(t *testing.T) {
		err := env.content.DeleteBlog(ctx, post.ID, nil)
		assert.Equal(t, http.StatusUnauthorized, errs.StatusCode(err))
	})

	t.Run("non-owner admin is refused", func(t *testing.T) {
		err := env.content.DeleteBlog(ctx, post.ID, otherAdmin)
		assert.True(t, errs.IsForbidden(err))
		err = env.content.DeleteBlog(ctx, post.ID, reader)
		assert.True(t, errs.IsForbidden(err))
	})

	t.Run("owner deletes without orphans", func(t *testing.T) {
		require.NoError(t, env.content.DeleteBlog(ctx, post.ID, owner))

		assert.Zero(t, env.count(t, "blog_comments", "content_id = ?", post.ID))
		assert.Zero(t, env.count(t, "blog_likes", "content_id = ?", post.ID))
		assert.Zero(t, env.count(t, models.BlogTagsTable, "blog_id = ?", post.ID))
		assert.Equal(t, int64(1), env.count(t, "tags", ""), "tags outlive posts")

		err := env.content.DeleteBlog(ctx, post.ID, owner)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("projects", func(t *testing.T) {
		project, err := env.content.CreateProject(ctx, models.CreateProjectRequest{Title: "p", Description: "d"}, owner)
		require.NoError(t, err)
		_, err = env.interaction.AddComment(ctx, models.ProjectKind, project.ID, models.CommentRequest{Content: "hi"}, reader)
		require.NoError(t, err)
		_, err = env.interaction.ToggleLike(ctx, models.ProjectKind, project.ID, reader)
		require.NoError(t, err)

		assert.True(t, errs.IsForbidden(env.content.DeleteProject(ctx, project.ID, otherAdmin)))
		require.NoError(t, env.content.DeleteProject(ctx, project.ID, owner))
		assert.Zero(t, env.count(t, "project_comments", "content_id = ?", project.ID))
		assert.Zero(t, env.count(t, "project_likes", "content_id = ?", project.ID))
		assert.True(t, errs.IsNotFound(env.content.DeleteProject(ctx, project.ID, owner)))
	})
}
