package cache

import (
	"context"
	"fmt"
	"time"

	"gamerhub/internal/models"
)

const (
	RankingsKeyPrefix    = "rankings:%s"
	AllRankingsKey       = "rankings:all"
	UserKeyPrefix        = "user:%d"
	FollowStatsKeyPrefix = "follow:%d:stats"
)

const (
	// Rankings are seeded reference data and never change at runtime.
	RankingsTTL    = time.Hour
	UserTTL        = 5 * time.Minute
	FollowStatsTTL = time.Minute
)

func RankingsKey(game models.GameType) string {
	return fmt.Sprintf(RankingsKeyPrefix, game)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func FollowStatsKey(userID uint) string {
	return fmt.Sprintf(FollowStatsKeyPrefix, userID)
}

// InvalidateRankings drops every cached ladder.
func (c *Cache) InvalidateRankings(ctx context.Context) {
	keys := []string{AllRankingsKey}
	for _, g := range models.GameTypes {
		keys = append(keys, RankingsKey(g))
	}
	c.Invalidate(ctx, keys...)
}

func (c *Cache) InvalidateUser(ctx context.Context, userID uint) {
	c.Invalidate(ctx, UserKey(userID))
}

// InvalidateFollow drops the stats of both ends of a follow edge.
func (c *Cache) InvalidateFollow(ctx context.Context, followerID, followingID uint) {
	c.Invalidate(ctx, FollowStatsKey(followerID), FollowStatsKey(followingID))
}
