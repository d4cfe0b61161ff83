package seed

import (
	"context"
	"fmt"
	"time"

	"gamerhub/internal/middleware"
	"gamerhub/internal/models"
	"gamerhub/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every generated account.
const DemoPassword = "password123"

// DemoOptions sizes the generated data set.
type DemoOptions struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	MaxDays         int
	Seed            int64
}

// DefaultDemoOptions is a small, browsable data set.
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{Users: 8, PostsPerUser: 3, CommentsPerPost: 2, MaxDays: 30, Seed: time.Now().UnixNano()}
}

// Repos bundles the repositories the demo seeder writes through.
type Repos struct {
	Users    repository.UserRepository
	Posts    repository.PostRepository
	Comments repository.CommentRepository
	Rankings repository.RankingRepository
	Follows  repository.FollowRepository
}

// Demo creates users, posts, comments and follows unless users already exist.
// The first account is an admin: admin@gamerhub.local.
func Demo(ctx context.Context, r Repos, opts DemoOptions) error {
	existing, err := r.Users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		middleware.Logger.Info("Demo seed skipped, users already present")
		return nil
	}

	faker := gofakeit.New(opts.Seed)
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	rankings, err := r.Rankings.ListAll(ctx)
	if err != nil {
		return err
	}
	byGame := map[models.GameType][]models.Ranking{}
	for _, rk := range rankings {
		byGame[rk.GameType] = append(byGame[rk.GameType], rk)
	}

	users := make([]*models.User, 0, opts.Users+1)
	admin := &models.User{Name: "Admin", Email: "admin@gamerhub.local", Password: string(hash), IsAdmin: true}
	if err := r.Users.Create(ctx, admin); err != nil {
		return err
	}
	users = append(users, admin)
	for i := 0; i < opts.Users; i++ {
		u := &models.User{
			Name:     faker.Name(),
			Email:    fmt.Sprintf("%s%d@%s", faker.Username(), i, faker.DomainName()),
			Password: string(hash),
			Picture:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", faker.UUID()),
		}
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		users = append(users, u)
	}

	games := models.GameTypes
	now := time.Now()
	var posts int
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			game := games[faker.Number(0, len(games)-1)]
			p := &models.Post{
				Content:  faker.Paragraph(1, 2, 12, " "),
				GameType: game,
				UserID:   u.ID,
			}
			if ladder := byGame[game]; len(ladder) > 0 && faker.Bool() {
				id := ladder[faker.Number(0, len(ladder)-1)].ID
				p.GameRankingID = &id
			}
			if opts.MaxDays > 0 {
				p.CreatedAt = now.Add(-time.Duration(faker.Number(0, opts.MaxDays*24)) * time.Hour)
			}
			if err := r.Posts.Create(ctx, p); err != nil {
				return err
			}
			posts++

			for j := 0; j < opts.CommentsPerPost; j++ {
				author := users[faker.Number(0, len(users)-1)]
				c := &models.Comment{Content: faker.Sentence(8), PostID: p.ID, UserID: author.ID}
				if !p.CreatedAt.IsZero() {
					c.CreatedAt = p.CreatedAt.Add(time.Duration(j+1) * time.Minute)
				}
				if err := r.Comments.Create(ctx, c); err != nil {
					return err
				}
			}
		}
	}

	for i, u := range users {
		target := users[(i+1)%len(users)]
		if target.ID == u.ID {
			continue
		}
		if err := r.Follows.Follow(ctx, u.ID, target.ID); err != nil {
			return err
		}
	}

	middleware.Logger.Info("Demo data seeded", "users", len(users), "posts", posts)
	return nil
}
