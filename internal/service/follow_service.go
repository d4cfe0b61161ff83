package service

import (
	"context"

	"gamerhub/internal/cache"
	"gamerhub/internal/models"
	"gamerhub/internal/repository"
)

// FollowStats holds both follow counters of a user.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	cache      *cache.Cache
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, c *cache.Cache) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo, cache: c}
}

func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewValidationError("You cannot follow yourself.")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	following, err := s.followRepo.IsFollowing(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if following {
		return models.NewValidationError("Already following.")
	}
	if err := s.followRepo.Follow(ctx, followerID, targetID); err != nil {
		return err
	}
	s.cache.InvalidateFollow(ctx, followerID, targetID)
	return nil
}

// Unfollow is idempotent.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	removed, err := s.followRepo.Unfollow(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if removed {
		s.cache.InvalidateFollow(ctx, followerID, targetID)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, targetID)
}

// Stats returns both counters of userID, cached briefly.
func (s *FollowService) Stats(ctx context.Context, userID uint) (FollowStats, error) {
	var stats FollowStats
	err := s.cache.CacheAside(ctx, cache.FollowStatsKey(userID), &stats, cache.FollowStatsTTL, func() error {
		followers, err := s.followRepo.CountFollowers(ctx, userID)
		if err != nil {
			return err
		}
		following, err := s.followRepo.CountFollowing(ctx, userID)
		if err != nil {
			return err
		}
		stats = FollowStats{Followers: followers, Following: following}
		return nil
	})
	return stats, err
}

func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}
