package repository

import (
	"context"

	"gamerhub/internal/cache"
	"gamerhub/internal/models"
	"gamerhub/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RankingRepository reads the seeded rank ladders.
type RankingRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Ranking, error)
	ListByGame(ctx context.Context, game models.GameType) ([]models.Ranking, error)
	ListAll(ctx context.Context) ([]models.Ranking, error)
	Upsert(ctx context.Context, rankings []models.Ranking) error
}

type rankingRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   *observability.RepoLogger
}

// NewRankingRepository returns a RankingRepository whose listings are
// cached in c.
func NewRankingRepository(db *gorm.DB, c *cache.Cache) RankingRepository {
	return &rankingRepository{db: db, cache: c, log: observability.NewRepoLogger("game_rankings")}
}

func (r *rankingRepository) GetByID(ctx context.Context, id uint) (*models.Ranking, error) {
	defer observability.TrackQuery("select", "game_rankings")()

	var ranking models.Ranking
	if err := r.db.WithContext(ctx).First(&ranking, id).Error; err != nil {
		return nil, translate(err, "Ranking", id)
	}
	return &ranking, nil
}

// ListByGame returns a game's ladder from lowest to highest score.
func (r *rankingRepository) ListByGame(ctx context.Context, game models.GameType) ([]models.Ranking, error) {
	rankings := []models.Ranking{}
	err := r.cache.CacheAside(ctx, cache.RankingsKey(game), &rankings, cache.RankingsTTL, func() error {
		defer observability.TrackQuery("select", "game_rankings")()
		return r.db.WithContext(ctx).
			Where("game_type = ?", game).
			Order("ranking_score asc").
			Order("id asc").
			Find(&rankings).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rankings, nil
}

func (r *rankingRepository) ListAll(ctx context.Context) ([]models.Ranking, error) {
	rankings := []models.Ranking{}
	err := r.cache.CacheAside(ctx, cache.AllRankingsKey, &rankings, cache.RankingsTTL, func() error {
		defer observability.TrackQuery("select", "game_rankings")()
		return r.db.WithContext(ctx).
			Order("game_type asc").
			Order("ranking_score asc").
			Order("id asc").
			Find(&rankings).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rankings, nil
}

// Upsert inserts rankings, updating score and type of existing game+name pairs.
func (r *rankingRepository) Upsert(ctx context.Context, rankings []models.Ranking) error {
	if len(rankings) == 0 {
		return nil
	}
	defer observability.TrackQuery("upsert", "game_rankings")()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_type"}, {Name: "ranking_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"ranking_score", "ranking_type"}),
	}).Create(&rankings).Error
	if err != nil {
		r.log.LogError(ctx, err, "upsert")
		return models.NewInternalError(err)
	}
	r.cache.InvalidateRankings(ctx)
	r.log.LogCreate(ctx, map[string]interface{}{"count": len(rankings)})
	return nil
}
