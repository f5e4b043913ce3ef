package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	t.Run("blank body is invalid", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 1, Body: "  "})
		assertValidationError(t, err)
	})

	t.Run("missing post propagates", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewCommentService(noopCommentRepo(), postRepo, nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 99, Body: "hi"})
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("success returns the fresh record", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 42
			return nil
		}
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Body: "hello", UserID: 1, PostID: 1, User: models.User{ID: 1, Name: "Alice"}}, nil
		}

		svc := NewCommentService(commentRepo, noopPostRepo(), nil)
		comment, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 1, Body: "hello"})
		require.NoError(t, err)
		assert.Equal(t, uint(42), comment.ID)
		assert.Equal(t, "Alice", comment.User.Name)
	})
}

func TestCommentService_DeleteComment_Policy(t *testing.T) {
	t.Parallel()

	// Comment 1 was written by user 10 on a post owned by user 20.
	commentBy := func(authorID uint) *commentRepoStub {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: authorID, PostID: 5}, nil
		}
		return repo
	}
	postOwnedBy := func(ownerID uint) *postRepoStub {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: ownerID}, nil
		}
		return repo
	}
	notAdmin := func(_ context.Context, _ uint) (bool, error) { return false, nil }

	t.Run("comment author can delete", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(commentBy(10), postOwnedBy(20), notAdmin)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{CommentID: 1, UserID: 10})
		assert.NoError(t, err)
	})

	t.Run("post author can moderate comments on their post", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(commentBy(10), postOwnedBy(20), notAdmin)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{CommentID: 1, UserID: 20})
		assert.NoError(t, err)
	})

	t.Run("admin can delete any comment", func(t *testing.T) {
		t.Parallel()
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc := NewCommentService(commentBy(10), postOwnedBy(20), isAdmin)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{CommentID: 1, UserID: 3})
		assert.NoError(t, err)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(commentBy(10), postOwnedBy(20), notAdmin)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{CommentID: 1, UserID: 3})
		assertForbiddenError(t, err)
	})

	t.Run("admin check failure propagates", func(t *testing.T) {
		t.Parallel()
		adminErr := errors.New("admin check failed")
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return false, adminErr }
		svc := NewCommentService(commentBy(10), postOwnedBy(20), isAdmin)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{CommentID: 1, UserID: 3})
		assert.ErrorIs(t, err, adminErr)
	})
}
