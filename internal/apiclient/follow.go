package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"gamerhub/internal/models"
)

// FollowStats counts a user's followers and followed users.
type FollowStats struct {
	Followers int64 `json:"followers" yaml:"followers"`
	Following int64 `json:"following" yaml:"following"`
}

// FollowUser follows targetID.
func (c *Client) FollowUser(ctx context.Context, targetID uint) error {
	if err := validateID("user ID", targetID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPost, path: fmt.Sprintf("/api/follow/%d", targetID), route: "/api/follow/:targetId"})
}

// UnfollowUser stops following targetID.
func (c *Client) UnfollowUser(ctx context.Context, targetID uint) error {
	if err := validateID("user ID", targetID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/api/follow/%d", targetID), route: "/api/follow/:targetId"})
}

// IsFollowing reports whether the signed-in user follows targetID.
func (c *Client) IsFollowing(ctx context.Context, targetID uint) (bool, error) {
	if err := validateID("user ID", targetID); err != nil {
		return false, err
	}
	var out struct {
		IsFollowing bool `json:"isFollowing"`
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/follow/is-following/%d", targetID),
		route:  "/api/follow/is-following/:targetId",
		out:    &out,
	})
	return out.IsFollowing, err
}

// FollowStatsOf fetches both follow counters of userID.
func (c *Client) FollowStatsOf(ctx context.Context, userID uint) (FollowStats, error) {
	var stats FollowStats
	if err := validateID("user ID", userID); err != nil {
		return stats, err
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/follow/%d/followers/count", userID),
		route:  "/api/follow/:userId/followers/count",
		out:    &stats,
	})
	if err != nil {
		return stats, err
	}
	err = c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/follow/%d/following/count", userID),
		route:  "/api/follow/:userId/following/count",
		out:    &stats,
	})
	return stats, err
}

// ListFollowers fetches the users following userID.
func (c *Client) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	if err := validateID("user ID", userID); err != nil {
		return nil, err
	}
	return c.listUsers(ctx, fmt.Sprintf("/api/follow/%d/followers", userID), "/api/follow/:userId/followers")
}

// ListFollowing fetches the users userID follows.
func (c *Client) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	if err := validateID("user ID", userID); err != nil {
		return nil, err
	}
	return c.listUsers(ctx, fmt.Sprintf("/api/follow/%d/following", userID), "/api/follow/:userId/following")
}
