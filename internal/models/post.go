package models

import (
	"time"

	"gorm.io/gorm"
)

// RecentCommentLimit is how many comments are embedded in a post listing.
const RecentCommentLimit = 3

// Post represents a post in the gamer hub feed.
type Post struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Content       string   `gorm:"type:text;not null" json:"content"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	GameType      GameType `gorm:"type:varchar(32);not null;default:GENERAL;index" json:"gameType"`
	UserID        uint     `gorm:"not null;index" json:"-"`
	User          User     `gorm:"foreignKey:UserID" json:"user"`
	GameRankingID *uint    `gorm:"index" json:"-"`
	GameRanking   *Ranking `gorm:"foreignKey:GameRankingID" json:"gameRanking,omitempty"`
	// CommentCount is not persisted; computed at query time
	CommentCount int `gorm:"->;-:migration" json:"commentCount"`
	// RecentComments holds the newest comments, filled by the repository
	RecentComments []Comment      `gorm:"-" json:"recentComments,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// RankingID returns the attached ranking id, or 0.
func (p *Post) RankingID() uint {
	if p.GameRanking != nil {
		return p.GameRanking.ID
	}
	if p.GameRankingID != nil {
		return *p.GameRankingID
	}
	return 0
}
