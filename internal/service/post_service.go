// Package service holds the server's business rules on top of the repositories.
package service

import (
	"context"
	"strings"

	"gamerhub/internal/models"
	"gamerhub/internal/repository"
)

const (
	maxPostLen    = 10000
	maxCommentLen = 10000
)

// AdminCheck reports whether userID is an administrator.
type AdminCheck func(ctx context.Context, userID uint) (bool, error)

// AdminCheckFor builds an AdminCheck from the user repository.
func AdminCheckFor(users repository.UserRepository) AdminCheck {
	return func(ctx context.Context, userID uint) (bool, error) {
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return false, err
		}
		return u.IsAdmin, nil
	}
}

type PostService struct {
	postRepo    repository.PostRepository
	rankingRepo repository.RankingRepository
	isAdmin     AdminCheck
}

type CreatePostInput struct {
	UserID    uint
	Content   string
	GameType  string
	RankingID *uint
	ImageURL  string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	rankingRepo repository.RankingRepository,
	isAdmin AdminCheck,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		rankingRepo: rankingRepo,
		isAdmin:     isAdmin,
	}
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) ListPostsByGame(ctx context.Context, game string) ([]*models.Post, error) {
	gt, err := models.ParseGameType(game)
	if err != nil {
		return nil, err
	}
	return s.postRepo.ListByGame(ctx, gt)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

func (s *PostService) ListFollowingPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.postRepo.ListFollowing(ctx, userID)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 10000 characters)")
	}
	game, err := models.ParseGameType(in.GameType)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Content:  content,
		GameType: game,
		UserID:   in.UserID,
		ImageURL: strings.TrimSpace(in.ImageURL),
	}

	if in.RankingID != nil && *in.RankingID != 0 {
		ranking, err := s.rankingRepo.GetByID(ctx, *in.RankingID)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return nil, models.NewValidationError("Ranking not found")
			}
			return nil, err
		}
		if ranking.GameType != game {
			return nil, models.NewValidationError("Ranking does not match the post's game type")
		}
		id := ranking.ID
		post.GameRankingID = &id
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost replaces the content of a post. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post. Authors and admins may delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if err := allowOwnerOrAdmin(ctx, s.isAdmin, post.UserID, in.UserID, "You can only delete your own posts"); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

func allowOwnerOrAdmin(ctx context.Context, isAdmin AdminCheck, ownerID, userID uint, denied string) error {
	if ownerID == userID {
		return nil
	}
	if isAdmin == nil {
		return models.NewUnauthorizedError(denied)
	}
	admin, err := isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError(denied)
	}
	return nil
}
