// Package taxonomy maps URL game slugs to backend game symbols and groups
// ranking ladders into tiers.
package taxonomy

import (
	"strings"

	"gamerhub/internal/models"
)

// Game is the URL-friendly slug of a game.
type Game string

const (
	AllGames        Game = "all-games"
	Valorant        Game = "valorant"
	LeagueOfLegends Game = "league-of-legends"
)

type gameEntry struct {
	slug    Game
	backend models.GameType
	label   string
}

// games is the only place slugs, backend symbols and labels are related.
var games = []gameEntry{
	{AllGames, models.GameGeneral, "All Games"},
	{Valorant, models.GameValorant, "Valorant"},
	{LeagueOfLegends, models.GameLeagueOfLegends, "League of Legends"},
}

// Games returns every slug in display order.
func Games() []Game {
	out := make([]Game, 0, len(games))
	for _, e := range games {
		out = append(out, e.slug)
	}
	return out
}

// SlugToGame resolves a slug. Unknown slugs report false.
func SlugToGame(slug string) (Game, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, e := range games {
		if string(e.slug) == slug {
			return e.slug, true
		}
	}
	return "", false
}

// GameToBackend returns the backend symbol for g. Unknown games map to GENERAL.
func GameToBackend(g Game) models.GameType {
	for _, e := range games {
		if e.slug == g {
			return e.backend
		}
	}
	return models.GameGeneral
}

// BackendToGame is the inverse of GameToBackend.
func BackendToGame(t models.GameType) (Game, bool) {
	for _, e := range games {
		if e.backend == t {
			return e.slug, true
		}
	}
	return "", false
}

// ResolveBackend turns a slug straight into a backend symbol, treating an
// unknown slug as GENERAL.
func ResolveBackend(slug string) models.GameType {
	g, ok := SlugToGame(slug)
	if !ok {
		return models.GameGeneral
	}
	return GameToBackend(g)
}

// Label is the human-readable name of g.
func (g Game) Label() string {
	for _, e := range games {
		if e.slug == g {
			return e.label
		}
	}
	return string(g)
}

func (g Game) String() string {
	return string(g)
}
