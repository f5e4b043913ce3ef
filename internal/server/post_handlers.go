package server

import (
	"fmt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title    string `json:"title" form:"title"`
	Subtitle string `json:"subtitle" form:"subtitle"`
	Body     string `json:"body" form:"body"`
	ImageURL string `json:"image_url" form:"image_url"`
}

type commentRequest struct {
	Body string `json:"body" form:"body"`
}

// Home lists every post, newest last, the way the front page has always
// read. Like counts and the caller's own liked flag come back per post.
func (s *Server) Home(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":   posts,
		"flashes": s.popFlashes(c),
	})
}

// ShowPost serves a single post with its comments. A missing post bounces
// the visitor back to the front page with a flash instead of a bare 404.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID, s.currentUserID(c))
	if err != nil {
		if models.IsNotFound(err) {
			s.flash(c, "Post not found!")
			return c.Redirect("/", fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
		"flashes":  s.popFlashes(c),
	})
}

// AddComment attaches a comment to a post. Anonymous visitors bounce back
// to the post with a flash rather than a 401; that is how commenting has
// always worked here.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	userID := s.currentUserID(c)
	if userID == 0 {
		s.flash(c, "you need to log in to comment!")
		return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusFound)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		PostID: postID,
		UserID: userID,
		Body:   req.Body,
	}); err != nil {
		if models.IsNotFound(err) {
			s.flash(c, "Post not found!")
			return c.Redirect("/", fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}

	return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusFound)
}

// ToggleLike flips the caller's like on a post and returns them to it.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	userID := s.currentUserID(c)
	if userID == 0 {
		s.flash(c, "you need to log in to like!")
		return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusFound)
	}

	if _, err := s.postService.ToggleLike(c.Context(), postID, userID); err != nil {
		if models.IsNotFound(err) {
			s.flash(c, "Post not found!")
			return c.Redirect("/", fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}

	return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusFound)
}

// NewPostPage serves the new-post form payload.
func (s *Server) NewPostPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":    "new-post",
		"flashes": s.popFlashes(c),
	})
}

// CreatePost publishes a new post and returns the author to the front page.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		UserID:   s.currentUserID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created", "post_id", post.ID)

	return c.Redirect("/", fiber.StatusFound)
}

// EditPostPage serves the edit form payload pre-filled with the post.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID, s.currentUserID(c))
	if err != nil {
		if models.IsNotFound(err) {
			s.flash(c, "Post not found!")
			return c.Redirect("/", fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"page":    "edit-post",
		"post":    post,
		"flashes": s.popFlashes(c),
	})
}

// UpdatePost applies an edit and returns the author to the post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		PostID:   postID,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		UserID:   s.currentUserID(c),
	}); err != nil {
		if models.IsNotFound(err) {
			s.flash(c, "Post not found!")
			return c.Redirect("/", fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}

	return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusFound)
}

// DeletePost removes a post along with its comments and likes.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), postID, s.currentUserID(c)); err != nil {
		if models.IsNotFound(err) {
			s.flash(c, "Post not found!")
			return c.Redirect("/", fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted", "post_id", postID)

	return c.Redirect("/", fiber.StatusFound)
}

// DeleteComment removes a comment and returns the caller to the post.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		CommentID: commentID,
		UserID:    s.currentUserID(c),
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusFound)
}
