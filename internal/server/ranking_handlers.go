package server

import (
	"gamerhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetRankings handles GET /api/rankings/game/:gameType
func (s *Server) GetRankings(c *fiber.Ctx) error {
	game, err := models.ParseGameType(c.Params("gameType"))
	if err != nil {
		return fail(c, err)
	}
	rankings, err := s.rankingRepo.ListByGame(c.UserContext(), game)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rankings)
}

// GetAllRankings handles GET /api/rankings
func (s *Server) GetAllRankings(c *fiber.Ctx) error {
	rankings, err := s.rankingRepo.ListAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rankings)
}
