package models

import "time"

// Follow is a directed edge from follower to followed user.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followerId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}
