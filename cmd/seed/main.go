// Command seed populates the database with ranking ladders and demo content.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"gamerhub/internal/cache"
	"gamerhub/internal/config"
	"gamerhub/internal/database"
	"gamerhub/internal/middleware"
	"gamerhub/internal/observability"
	"gamerhub/internal/repository"
	"gamerhub/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	defaults := seed.DefaultDemoOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	commentsPerPost := flag.Int("comments", defaults.CommentsPerPost, "Comments per post")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread post dates over this many days")
	rankingsOnly := flag.Bool("rankings-only", false, "Only load the ranking ladders")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.SetupLogger(cfg.Env, observability.ParseLevel(cfg.LogLevel))

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c := cache.New(nil)
	rankings := repository.NewRankingRepository(db, c)
	if err := seed.Rankings(ctx, rankings); err != nil {
		log.Fatalf("Ranking seeding failed: %v", err)
	}
	log.Println("Ranking ladders loaded")
	if *rankingsOnly {
		return
	}

	err = seed.Demo(ctx, seed.Repos{
		Users:    repository.NewUserRepository(db, c),
		Posts:    repository.NewPostRepository(db),
		Comments: repository.NewCommentRepository(db),
		Rankings: rankings,
		Follows:  repository.NewFollowRepository(db),
	}, seed.DemoOptions{
		Users:           *numUsers,
		PostsPerUser:    *postsPerUser,
		CommentsPerPost: *commentsPerPost,
		MaxDays:         *maxDays,
		Seed:            defaults.Seed,
	})
	if err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}
	log.Printf("Demo data loaded. All accounts use the password %q", seed.DemoPassword)
}
