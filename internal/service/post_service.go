package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// publishedOnLayout matches the long-form date the site has always shown on
// posts, e.g. "August 29, 2026".
const publishedOnLayout = "January 02, 2006"

// PostService handles post authoring and the like toggle.
type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
	now      func() time.Time
}

// CreatePostInput carries the new-post form fields.
type CreatePostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImageURL string
	UserID   uint
}

// UpdatePostInput carries the edit-post form fields. PublishedOn is not
// editable; the original date sticks.
type UpdatePostInput struct {
	PostID   uint
	Title    string
	Subtitle string
	Body     string
	ImageURL string
	UserID   uint
}

func NewPostService(postRepo repository.PostRepository, isAdmin func(ctx context.Context, userID uint) (bool, error)) *PostService {
	return &PostService{postRepo: postRepo, isAdmin: isAdmin, now: time.Now}
}

// canManagePost reports whether userID may edit or delete the given post.
func (s *PostService) canManagePost(ctx context.Context, post *models.Post, userID uint) (bool, error) {
	if post.UserID == userID {
		return true, nil
	}
	if s.isAdmin == nil {
		return false, nil
	}
	return s.isAdmin(ctx, userID)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Subtitle == "" {
		return nil, models.NewValidationError("Subtitle is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Body is required")
	}

	post := &models.Post{
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Body:        in.Body,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		PublishedOn: s.now().Format(publishedOnLayout),
		UserID:      in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, currentUserID)
}

// UpdatePost applies the edit if the caller wrote the post or is an admin.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManagePost(ctx, post, in.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Subtitle == "" {
		return nil, models.NewValidationError("Subtitle is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Body is required")
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.Body = in.Body
	post.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost removes the post and everything hanging off it. Same ownership
// rule as edits.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}

	allowed, err := s.canManagePost(ctx, post, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on a post and reports the new state.
// The insert side is an upsert, so two racing toggles from the same user
// cannot double-like.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (liked bool, err error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return false, err
	}

	alreadyLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if alreadyLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return false, err
	}
	return true, nil
}
