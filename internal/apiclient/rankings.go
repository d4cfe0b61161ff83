package apiclient

import (
	"context"
	"net/http"

	"gamerhub/internal/models"
)

// ListRankings fetches the ranking ladder of a game, lowest first.
func (c *Client) ListRankings(ctx context.Context, gameType models.GameType) ([]models.Ranking, error) {
	if !gameType.Valid() {
		return nil, models.NewValidationError("Invalid game type: " + string(gameType))
	}
	return c.listRankings(ctx, "/api/rankings/game/"+string(gameType), "/api/rankings/game/:gameType")
}

// ListAllRankings fetches the ladders of every game.
func (c *Client) ListAllRankings(ctx context.Context) ([]models.Ranking, error) {
	return c.listRankings(ctx, "/api/rankings", "/api/rankings")
}

func (c *Client) listRankings(ctx context.Context, path, route string) ([]models.Ranking, error) {
	var raw []wireRanking
	if err := c.do(ctx, call{method: http.MethodGet, path: path, route: route, out: &raw}); err != nil {
		return nil, err
	}
	out := make([]models.Ranking, 0, len(raw))
	for i := range raw {
		out = append(out, *raw[i].model())
	}
	return out, nil
}
