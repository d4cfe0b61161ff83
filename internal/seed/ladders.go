// Package seed loads reference rankings and optional demo content.
package seed

import (
	"context"
	"fmt"

	"gamerhub/internal/models"
	"gamerhub/internal/repository"
)

var (
	valorantTiers = []string{"Iron", "Bronze", "Silver", "Gold", "Platinum", "Diamond", "Ascendant", "Immortal"}
	leagueTiers   = []string{"Iron", "Bronze", "Silver", "Gold", "Platinum", "Emerald", "Diamond"}
	leagueApex    = []string{"Master", "Grandmaster", "Challenger"}
	leagueDivs    = []string{"IV", "III", "II", "I"}
)

// Ladders returns every game's ranking ladder, lowest first.
func Ladders() []models.Ranking {
	var out []models.Ranking

	score := 0
	for _, tier := range valorantTiers {
		for div := 1; div <= 3; div++ {
			score++
			out = append(out, rank(models.GameValorant, fmt.Sprintf("%s %d", tier, div), score))
		}
	}
	score++
	out = append(out, rank(models.GameValorant, "Radiant", score))

	score = 0
	for _, tier := range leagueTiers {
		for _, div := range leagueDivs {
			score++
			out = append(out, rank(models.GameLeagueOfLegends, tier+" "+div, score))
		}
	}
	for _, apex := range leagueApex {
		score++
		out = append(out, rank(models.GameLeagueOfLegends, apex, score))
	}
	return out
}

func rank(game models.GameType, name string, score int) models.Ranking {
	return models.Ranking{GameType: game, RankingName: name, RankingScore: score, RankingType: models.RankingTier}
}

// Rankings upserts the ladders; safe to run on every start.
func Rankings(ctx context.Context, repo repository.RankingRepository) error {
	return repo.Upsert(ctx, Ladders())
}
