package service

import (
	"context"
	"sync"
	"testing"

	"gamerhub/internal/models"

	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context) ([]*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
	byGame    models.GameType
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) { return s.listFn(ctx) }
func (s *postRepoStub) ListByGame(ctx context.Context, g models.GameType) ([]*models.Post, error) {
	s.byGame = g
	return s.listFn(ctx)
}
func (s *postRepoStub) ListByUser(ctx context.Context, _ uint) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) ListFollowing(ctx context.Context, _ uint) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id, UserID: 1}, nil },
		listFn:    func(_ context.Context) ([]*models.Post, error) { return []*models.Post{}, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListAll(ctx context.Context) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, 0)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id, UserID: 1}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return []*models.Comment{}, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// rankingRepoStub serves a fixed ladder.
type rankingRepoStub struct {
	rankings []models.Ranking
}

func (s *rankingRepoStub) GetByID(_ context.Context, id uint) (*models.Ranking, error) {
	for i := range s.rankings {
		if s.rankings[i].ID == id {
			return &s.rankings[i], nil
		}
	}
	return nil, models.NewNotFoundError("Ranking", id)
}
func (s *rankingRepoStub) ListByGame(_ context.Context, g models.GameType) ([]models.Ranking, error) {
	out := []models.Ranking{}
	for _, r := range s.rankings {
		if r.GameType == g {
			out = append(out, r)
		}
	}
	return out, nil
}
func (s *rankingRepoStub) ListAll(_ context.Context) ([]models.Ranking, error) {
	return s.rankings, nil
}
func (s *rankingRepoStub) Upsert(_ context.Context, r []models.Ranking) error {
	s.rankings = append(s.rankings, r...)
	return nil
}

// memUserRepo is a map-backed repository.UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
	next  uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]*models.User{}}
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.NewNotFoundError("User", id)
}

func (r *memUserRepo) find(match func(*models.User) bool, key string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.NewNotFoundError("User", key)
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email }, email)
}

func (r *memUserRepo) GetByGoogleID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.GoogleID != "" && u.GoogleID == id }, id)
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	u.ID = r.next
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, models.IsValidation(err), "expected validation error, got %v", err)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, models.HasCode(err, models.CodeUnauthorized), "expected unauthorized error, got %v", err)
}

func adminIs(ids ...uint) AdminCheck {
	return func(_ context.Context, userID uint) (bool, error) {
		for _, id := range ids {
			if id == userID {
				return true, nil
			}
		}
		return false, nil
	}
}
