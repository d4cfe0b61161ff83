package models

// Ranking is an immutable rank on a game's ladder.
type Ranking struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	GameType     GameType    `gorm:"type:varchar(32);not null;uniqueIndex:idx_ranking_game_name" json:"gameType"`
	RankingName  string      `gorm:"not null;uniqueIndex:idx_ranking_game_name" json:"rankingName"`
	RankingScore int         `json:"rankingScore"`
	RankingType  RankingType `gorm:"type:varchar(16);default:TIER" json:"rankingType,omitempty"`
}

// TableName keeps the table name used by the existing schema.
func (Ranking) TableName() string {
	return "game_rankings"
}
