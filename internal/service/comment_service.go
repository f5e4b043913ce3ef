package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CommentService handles comments on posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	PostID uint
	UserID uint
	Body   string
}

type DeleteCommentInput struct {
	CommentID uint
	UserID    uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, isAdmin func(ctx context.Context, userID uint) (bool, error)) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, isAdmin: isAdmin}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Comment body is required")
	}

	// The post must still exist; comments on deleted posts 404.
	if _, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:   in.Body,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment allows the comment's author, the post's author, or an admin
// to remove a comment.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}

	if comment.UserID != in.UserID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, in.UserID)
			if err != nil {
				return err
			}
		}
		if !admin {
			post, err := s.postRepo.GetByID(ctx, comment.PostID, in.UserID)
			if err != nil {
				return err
			}
			if post.UserID != in.UserID {
				return models.NewForbiddenError("You can only delete your own comments")
			}
		}
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}

// ListComments returns a post's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
