package models

import "strings"

// GameType is the backend symbol for the game a post or ranking belongs to.
type GameType string

const (
	GameGeneral         GameType = "GENERAL"
	GameValorant        GameType = "VALORANT"
	GameLeagueOfLegends GameType = "LEAGUE_OF_LEGENDS"
)

// GameTypes lists every known game symbol in display order.
var GameTypes = []GameType{GameGeneral, GameValorant, GameLeagueOfLegends}

// Valid reports whether g is one of the known symbols.
func (g GameType) Valid() bool {
	for _, known := range GameTypes {
		if g == known {
			return true
		}
	}
	return false
}

func (g GameType) String() string {
	return string(g)
}

// ParseGameType accepts a backend symbol in any case. An empty string is GENERAL.
func ParseGameType(raw string) (GameType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GameGeneral, nil
	}
	g := GameType(strings.ToUpper(raw))
	if !g.Valid() {
		return "", NewValidationError("Invalid game type: " + raw)
	}
	return g, nil
}

// RankingType tells whether a ranking is a named tier or a numeric score.
type RankingType string

const (
	RankingTier  RankingType = "TIER"
	RankingScore RankingType = "SCORE"
)
