package server

import (
	"gamerhub/internal/models"
	"gamerhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetPostsByGame handles GET /api/posts/game/:gameType
func (s *Server) GetPostsByGame(c *fiber.Ctx) error {
	posts, err := s.postService.ListPostsByGame(c.UserContext(), c.Params("gameType"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/user
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListUserPosts(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetFollowingPosts handles GET /api/posts/following
func (s *Server) GetFollowingPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListFollowingPosts(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req models.CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:    currentUserID(c),
		Content:   req.Content,
		GameType:  string(req.GameType),
		RankingID: req.RankingID,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req models.UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	err = s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: postID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
