package repository

import (
	"context"

	"gamerhub/internal/models"
	"gamerhub/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository stores follower edges.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID uint) error
	Unfollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository returns a FollowRepository backed by db.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followingID uint) error {
	defer observability.TrackQuery("insert", "follows")()

	edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		r.log.LogError(ctx, err, "follow")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"follower_id": followerID, "following_id": followingID})
	return nil
}

// Unfollow removes the edge and reports whether one existed.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	defer observability.TrackQuery("delete", "follows")()

	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "unfollow")
		return false, models.NewInternalError(res.Error)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"follower_id": followerID, "following_id": followingID})
	return res.RowsAffected > 0, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	defer observability.TrackQuery("select", "follows")()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "following_id = ?", userID)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *followRepository) count(ctx context.Context, where string, userID uint) (int64, error) {
	defer observability.TrackQuery("count", "follows")()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where(where, userID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// ListFollowers returns the users following userID.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return r.users(ctx, "id IN (?)",
		r.db.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", userID))
}

// ListFollowing returns the users userID follows.
func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return r.users(ctx, "id IN (?)",
		r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID))
}

func (r *followRepository) users(ctx context.Context, where string, sub *gorm.DB) ([]models.User, error) {
	defer observability.TrackQuery("select", "follows")()

	users := []models.User{}
	if err := r.db.WithContext(ctx).Where(where, sub).Order("id asc").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
