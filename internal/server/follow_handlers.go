package server

import (
	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follow/:targetId
func (s *Server) Follow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}
	if err := s.followService.Follow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Followed successfully"})
}

// Unfollow handles DELETE /api/follow/:targetId
func (s *Server) Unfollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}
	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed successfully"})
}

// IsFollowing handles GET /api/follow/is-following/:targetId
func (s *Server) IsFollowing(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}
	following, err := s.followService.IsFollowing(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"isFollowing": following})
}

// GetFollowerCount handles GET /api/follow/:userId/followers/count
func (s *Server) GetFollowerCount(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	stats, err := s.followService.Stats(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"followers": stats.Followers})
}

// GetFollowingCount handles GET /api/follow/:userId/following/count
func (s *Server) GetFollowingCount(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	stats, err := s.followService.Stats(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"following": stats.Following})
}

// GetFollowers handles GET /api/follow/:userId/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	users, err := s.followService.Followers(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/follow/:userId/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	users, err := s.followService.Following(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}
