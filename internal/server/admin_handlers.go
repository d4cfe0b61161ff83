package server

import (
	"github.com/gofiber/fiber/v2"
)

// AdminListComments handles GET /api/admin/comments
func (s *Server) AdminListComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListAllComments(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comments)
}

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// AdminListPosts handles GET /api/admin/posts
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}
