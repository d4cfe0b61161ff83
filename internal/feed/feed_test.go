package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gamerhub/internal/models"
	"gamerhub/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu sync.Mutex

	listPostsFn       func(ctx context.Context) ([]models.Post, error)
	listPostsByGameFn func(ctx context.Context, g models.GameType) ([]models.Post, error)
	listUserPostsFn   func(ctx context.Context) ([]models.Post, error)
	listFollowingFn   func(ctx context.Context) ([]models.Post, error)
	createPostFn      func(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	updatePostFn      func(ctx context.Context, id uint, content string) (*models.Post, error)
	deletePostFn      func(ctx context.Context, id uint) error

	calls []string
}

func (s *stubSource) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

func (s *stubSource) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.record("ListPosts")
	return s.listPostsFn(ctx)
}

func (s *stubSource) ListPostsByGame(ctx context.Context, g models.GameType) ([]models.Post, error) {
	s.record("ListPostsByGame:" + string(g))
	return s.listPostsByGameFn(ctx, g)
}

func (s *stubSource) ListUserPosts(ctx context.Context) ([]models.Post, error) {
	s.record("ListUserPosts")
	return s.listUserPostsFn(ctx)
}

func (s *stubSource) ListFollowingPosts(ctx context.Context) ([]models.Post, error) {
	s.record("ListFollowingPosts")
	return s.listFollowingFn(ctx)
}

func (s *stubSource) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	s.record("CreatePost")
	return s.createPostFn(ctx, req)
}

func (s *stubSource) UpdatePost(ctx context.Context, id uint, content string) (*models.Post, error) {
	s.record("UpdatePost")
	return s.updatePostFn(ctx, id, content)
}

func (s *stubSource) DeletePost(ctx context.Context, id uint) error {
	s.record("DeletePost")
	return s.deletePostFn(ctx, id)
}

func (s *stubSource) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// newStubSource serves posts from an in-memory list keyed by game.
func newStubSource(posts []models.Post) *stubSource {
	var mu sync.Mutex
	list := func() []models.Post {
		mu.Lock()
		defer mu.Unlock()
		return append([]models.Post(nil), posts...)
	}
	s := &stubSource{}
	s.listPostsFn = func(context.Context) ([]models.Post, error) { return list(), nil }
	s.listPostsByGameFn = func(_ context.Context, g models.GameType) ([]models.Post, error) {
		var out []models.Post
		for _, p := range list() {
			if p.GameType == g {
				out = append(out, p)
			}
		}
		return out, nil
	}
	s.listUserPostsFn = func(context.Context) ([]models.Post, error) { return list()[:1], nil }
	s.listFollowingFn = func(context.Context) ([]models.Post, error) { return nil, nil }
	s.createPostFn = func(_ context.Context, req models.CreatePostRequest) (*models.Post, error) {
		mu.Lock()
		defer mu.Unlock()
		p := models.Post{ID: uint(len(posts) + 100), Content: req.Content, GameType: req.GameType, CreatedAt: time.Now()}
		if req.RankingID != nil {
			p.GameRanking = &models.Ranking{ID: *req.RankingID}
		}
		posts = append(posts, p)
		return &p, nil
	}
	s.updatePostFn = func(_ context.Context, id uint, content string) (*models.Post, error) {
		mu.Lock()
		defer mu.Unlock()
		for i := range posts {
			if posts[i].ID == id {
				posts[i].Content = content
				return &posts[i], nil
			}
		}
		return nil, models.NewNotFoundError("Post", id)
	}
	s.deletePostFn = func(_ context.Context, id uint) error {
		mu.Lock()
		defer mu.Unlock()
		for i := range posts {
			if posts[i].ID == id {
				posts = append(posts[:i], posts[i+1:]...)
				return nil
			}
		}
		return models.NewNotFoundError("Post", id)
	}
	return s
}

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func post(id uint, game models.GameType, rankingID uint, minutes int) models.Post {
	p := models.Post{ID: id, GameType: game, Content: "post", CreatedAt: base.Add(time.Duration(minutes) * time.Minute)}
	if rankingID != 0 {
		p.GameRanking = &models.Ranking{ID: rankingID, GameType: game}
	}
	return p
}

func sample() []models.Post {
	return []models.Post{
		post(1, models.GameValorant, 12, 0),
		post(2, models.GameValorant, 13, 5),
		post(3, models.GameLeagueOfLegends, 40, 10),
		post(4, models.GameGeneral, 0, 15),
		post(5, models.GameValorant, 0, 20),
	}
}

func ids(posts []models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestLoadFeedScopes(t *testing.T) {
	ctx := context.Background()
	src := newStubSource(sample())
	c := New(src)

	view, err := c.LoadFeed(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 4, 3, 2, 1}, ids(view))
	assert.Equal(t, ScopeAll, c.Scope())

	view, err = c.LoadFeed(ctx, models.GameValorant)
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 2, 1}, ids(view))
	assert.Equal(t, ScopeGame, c.Scope())

	_, err = c.LoadFeed(ctx, models.GameGeneral)
	require.NoError(t, err)

	view, err = c.LoadUserFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids(view))

	view, err = c.LoadFollowingFeed(ctx)
	require.NoError(t, err)
	assert.NotNil(t, view)
	assert.Empty(t, view)

	assert.Equal(t, []string{
		"ListPosts",
		"ListPostsByGame:VALORANT",
		"ListPosts",
		"ListUserPosts",
		"ListFollowingPosts",
	}, src.recorded())

	_, err = c.LoadFeed(ctx, "CHESS")
	assert.True(t, models.IsValidation(err))
}

func TestFilterAndSort(t *testing.T) {
	ctx := context.Background()
	c := New(newStubSource(sample()))
	_, err := c.LoadFeed(ctx, models.GameValorant)
	require.NoError(t, err)

	view := c.SetFilter(12)
	assert.Equal(t, []uint{1}, ids(view))

	view = c.ToggleRanking(13)
	assert.Equal(t, []uint{2, 1}, ids(view))

	view, err = c.SetSortOrder(Oldest)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids(view))

	view = c.ClearFilter()
	assert.Equal(t, []uint{1, 2, 5}, ids(view))
	assert.Len(t, c.Posts(), 3)

	_, err = c.SetSortOrder("random")
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, Oldest, c.SortOrder())
}

func TestToggleTier(t *testing.T) {
	ctx := context.Background()
	c := New(newStubSource(sample()))
	_, err := c.LoadFeed(ctx, models.GameValorant)
	require.NoError(t, err)

	ladder := []models.Ranking{{ID: 12, RankingName: "Gold 1"}, {ID: 13, RankingName: "Gold 2"}}
	groups := taxonomy.GroupRankings(ladder, c.Selection())
	view := c.ToggleTier(groups[0])
	assert.Equal(t, []uint{2, 1}, ids(view))
	assert.Equal(t, []uint{12, 13}, c.Selection().IDs())

	groups = taxonomy.GroupRankings(ladder, c.Selection())
	require.True(t, groups[0].FullySelected())
	view = c.ToggleTier(groups[0])
	assert.Len(t, view, 3)
}

func TestSwitchingGameClearsFilter(t *testing.T) {
	ctx := context.Background()
	c := New(newStubSource(sample()))
	_, err := c.LoadFeed(ctx, models.GameValorant)
	require.NoError(t, err)
	c.SetFilter(12)

	_, err = c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Selection().Len(), "refreshing the same game keeps the filter")

	view, err := c.LoadFeed(ctx, models.GameLeagueOfLegends)
	require.NoError(t, err)
	assert.True(t, c.Selection().Empty())
	assert.Equal(t, []uint{3}, ids(view))
}

func TestMutationsRefetch(t *testing.T) {
	ctx := context.Background()
	src := newStubSource(sample())
	c := New(src)
	_, err := c.LoadFeed(ctx, models.GameValorant)
	require.NoError(t, err)

	rankingID := uint(12)
	created, err := c.CreatePost(ctx, models.CreatePostRequest{Content: "gg", GameType: models.GameValorant, RankingID: &rankingID})
	require.NoError(t, err)
	assert.Contains(t, ids(c.View()), created.ID)

	require.NoError(t, c.UpdatePost(ctx, created.ID, "gg wp"))
	for _, p := range c.View() {
		if p.ID == created.ID {
			assert.Equal(t, "gg wp", p.Content)
		}
	}

	require.NoError(t, c.DeletePost(ctx, created.ID))
	assert.NotContains(t, ids(c.View()), created.ID)

	require.NoError(t, c.CommentsChanged(ctx, 1))

	assert.Equal(t, []string{
		"ListPostsByGame:VALORANT",
		"CreatePost", "ListPostsByGame:VALORANT",
		"UpdatePost", "ListPostsByGame:VALORANT",
		"DeletePost", "ListPostsByGame:VALORANT",
		"ListPostsByGame:VALORANT",
	}, src.recorded())
}

func TestFailedMutationDoesNotRefetch(t *testing.T) {
	ctx := context.Background()
	src := newStubSource(sample())
	c := New(src)

	err := c.DeletePost(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, []string{"DeletePost"}, src.recorded())
}

func TestStaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	src := newStubSource(sample())
	release := make(chan struct{})
	started := make(chan struct{})
	slow := src.listPostsByGameFn
	src.listPostsByGameFn = func(ctx context.Context, g models.GameType) ([]models.Post, error) {
		if g == models.GameValorant {
			close(started)
			<-release
		}
		return slow(ctx, g)
	}
	c := New(src)

	type result struct {
		posts []models.Post
		err   error
	}
	done := make(chan result, 1)
	go func() {
		posts, err := c.LoadFeed(ctx, models.GameValorant)
		done <- result{posts, err}
	}()
	<-started

	view, err := c.LoadFeed(ctx, models.GameLeagueOfLegends)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(view))

	close(release)
	res := <-done
	assert.ErrorIs(t, res.err, ErrSuperseded)
	assert.Nil(t, res.posts)

	assert.Equal(t, []uint{3}, ids(c.View()))
	assert.Equal(t, models.GameLeagueOfLegends, c.ActiveGame())
}

func TestLoadErrorKeepsPreviousPosts(t *testing.T) {
	ctx := context.Background()
	src := newStubSource(sample())
	c := New(src)
	_, err := c.LoadFeed(ctx, "")
	require.NoError(t, err)

	boom := errors.New("boom")
	src.listPostsFn = func(context.Context) ([]models.Post, error) { return nil, boom }
	_, err = c.Refresh(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, c.View(), 5)
}

func TestFailedGameSwitchKeepsActiveGame(t *testing.T) {
	ctx := context.Background()
	src := newStubSource(sample())
	c := New(src)
	_, err := c.LoadFeed(ctx, models.GameValorant)
	require.NoError(t, err)
	c.SetFilter(12)
	before := ids(c.View())

	boom := errors.New("boom")
	working := src.listPostsByGameFn
	src.listPostsByGameFn = func(ctx context.Context, g models.GameType) ([]models.Post, error) {
		if g == models.GameLeagueOfLegends {
			return nil, boom
		}
		return working(ctx, g)
	}

	_, err = c.LoadFeed(ctx, models.GameLeagueOfLegends)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.GameValorant, c.ActiveGame())
	assert.Equal(t, ScopeGame, c.Scope())
	assert.Equal(t, 1, c.Selection().Len())
	assert.Equal(t, before, ids(c.View()))

	_, err = c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ListPostsByGame:VALORANT", src.recorded()[len(src.recorded())-1])
}

func TestFilterPosts(t *testing.T) {
	posts := sample()

	all := FilterPosts(posts, nil)
	assert.Equal(t, ids(posts), ids(all))

	filtered := FilterPosts(posts, taxonomy.NewSelection(12, 40, 99))
	assert.Equal(t, []uint{1, 3}, ids(filtered))

	assert.Empty(t, FilterPosts(posts, taxonomy.NewSelection(99)))
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(posts), "input untouched")
}

func TestSortPosts(t *testing.T) {
	tie := []models.Post{post(7, models.GameGeneral, 0, 0), post(3, models.GameGeneral, 0, 0), post(9, models.GameGeneral, 0, -5)}

	newest := SortPosts(tie, Newest)
	assert.Equal(t, []uint{7, 3, 9}, ids(newest))
	assert.Equal(t, ids(newest), ids(SortPosts(newest, Newest)), "idempotent")

	oldest := SortPosts(tie, Oldest)
	assert.Equal(t, []uint{9, 3, 7}, ids(oldest))

	reversed := []models.Post{tie[2], tie[1], tie[0]}
	assert.Equal(t, ids(newest), ids(SortPosts(reversed, Newest)), "order independent of input")
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, Newest, o)
	o, err = ParseSortOrder("OLDEST")
	require.NoError(t, err)
	assert.Equal(t, Oldest, o)
	_, err = ParseSortOrder("top")
	assert.Error(t, err)
}
