// Package feed holds the post list shown to the user: it fetches posts for the
// active scope, keeps the canonical set and derives the filtered, sorted view.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gamerhub/internal/models"
	"gamerhub/internal/observability"
	"gamerhub/internal/taxonomy"
)

// ErrSuperseded is returned by a load whose response arrived after a newer
// load was issued. The response has been discarded.
var ErrSuperseded = errors.New("feed: load superseded by a newer request")

// PostSource is the subset of the API client the feed needs.
type PostSource interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByGame(ctx context.Context, gameType models.GameType) ([]models.Post, error)
	ListUserPosts(ctx context.Context) ([]models.Post, error)
	ListFollowingPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, content string) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
}

// Scope is which posts the canonical set holds.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeGame      Scope = "game"
	ScopeUser      Scope = "user"
	ScopeFollowing Scope = "following"
)

// Controller owns the feed state. It is safe for concurrent use; the lock is
// never held across network calls.
type Controller struct {
	source PostSource

	mu         sync.Mutex
	scope      Scope
	game       models.GameType
	posts      []models.Post
	selection  *taxonomy.Selection
	order      SortOrder
	generation uint64

	// want is the scope of the latest load. It becomes scope and game once
	// that load succeeds.
	want target
}

type target struct {
	scope Scope
	game  models.GameType
}

// New returns an empty controller showing all games, newest first.
func New(source PostSource) *Controller {
	return &Controller{
		source:    source,
		scope:     ScopeAll,
		game:      models.GameGeneral,
		want:      target{scope: ScopeAll, game: models.GameGeneral},
		selection: taxonomy.NewSelection(),
		order:     Newest,
	}
}

// LoadFeed loads every post (gameType empty or GENERAL) or the posts of one
// game. Switching to another game clears the ranking filter. A failed load
// leaves the previous game, scope and filter in place.
func (c *Controller) LoadFeed(ctx context.Context, gameType models.GameType) ([]models.Post, error) {
	if gameType == "" {
		gameType = models.GameGeneral
	}
	if !gameType.Valid() {
		return nil, models.NewValidationError("Invalid game type: " + string(gameType))
	}

	c.mu.Lock()
	c.want = target{scope: ScopeGame, game: gameType}
	if gameType == models.GameGeneral {
		c.want.scope = ScopeAll
	}
	gen, fetch := c.beginLocked()
	c.mu.Unlock()

	return c.finish(ctx, gen, fetch)
}

// LoadUserFeed loads the signed-in user's posts.
func (c *Controller) LoadUserFeed(ctx context.Context) ([]models.Post, error) {
	return c.loadScope(ctx, ScopeUser)
}

// LoadFollowingFeed loads posts by followed users.
func (c *Controller) LoadFollowingFeed(ctx context.Context) ([]models.Post, error) {
	return c.loadScope(ctx, ScopeFollowing)
}

// Refresh re-fetches the active scope.
func (c *Controller) Refresh(ctx context.Context) ([]models.Post, error) {
	c.mu.Lock()
	gen, fetch := c.beginLocked()
	c.mu.Unlock()
	return c.finish(ctx, gen, fetch)
}

func (c *Controller) loadScope(ctx context.Context, scope Scope) ([]models.Post, error) {
	c.mu.Lock()
	c.want.scope = scope
	gen, fetch := c.beginLocked()
	c.mu.Unlock()
	return c.finish(ctx, gen, fetch)
}

type fetchFunc func(ctx context.Context) ([]models.Post, error)

// beginLocked issues a new generation for the requested scope.
func (c *Controller) beginLocked() (uint64, fetchFunc) {
	c.generation++
	game := c.want.game
	var fetch fetchFunc
	switch c.want.scope {
	case ScopeGame:
		fetch = func(ctx context.Context) ([]models.Post, error) {
			return c.source.ListPostsByGame(ctx, game)
		}
	case ScopeUser:
		fetch = c.source.ListUserPosts
	case ScopeFollowing:
		fetch = c.source.ListFollowingPosts
	default:
		fetch = c.source.ListPosts
	}
	return c.generation, fetch
}

func (c *Controller) finish(ctx context.Context, gen uint64, fetch fetchFunc) ([]models.Post, error) {
	observability.LogServiceCall(ctx, "feed", "load", map[string]interface{}{
		"generation": gen,
	})
	posts, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		observability.SupersededLoads.WithLabelValues("feed").Inc()
		return nil, ErrSuperseded
	}
	if err != nil {
		c.want = target{scope: c.scope, game: c.game}
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	if c.want.game != c.game {
		c.selection.Clear()
	}
	c.scope, c.game = c.want.scope, c.want.game
	c.posts = posts
	return c.viewLocked(), nil
}

// CreatePost publishes a post and reloads the feed.
func (c *Controller) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	post, err := c.source.CreatePost(ctx, req)
	if err != nil {
		return nil, err
	}
	return post, c.refreshAfterMutation(ctx)
}

// UpdatePost edits a post's content and reloads the feed.
func (c *Controller) UpdatePost(ctx context.Context, id uint, content string) error {
	if _, err := c.source.UpdatePost(ctx, id, content); err != nil {
		return err
	}
	return c.refreshAfterMutation(ctx)
}

// DeletePost removes a post and reloads the feed.
func (c *Controller) DeletePost(ctx context.Context, id uint) error {
	if err := c.source.DeletePost(ctx, id); err != nil {
		return err
	}
	return c.refreshAfterMutation(ctx)
}

// CommentsChanged reloads the feed after a comment on postID was added,
// edited or removed, so the post's comment count is current.
func (c *Controller) CommentsChanged(ctx context.Context, postID uint) error {
	observability.LogServiceCall(ctx, "feed", "comments_changed", map[string]interface{}{
		"post_id": postID,
	})
	return c.refreshAfterMutation(ctx)
}

// refreshAfterMutation ignores supersession: a newer load already covers the mutation.
func (c *Controller) refreshAfterMutation(ctx context.Context) error {
	_, err := c.Refresh(ctx)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		return fmt.Errorf("reload feed: %w", err)
	}
	return nil
}

// SetFilter replaces the ranking selection.
func (c *Controller) SetFilter(ids ...uint) []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = taxonomy.NewSelection(ids...)
	return c.viewLocked()
}

// ToggleRanking flips one ranking in the selection.
func (c *Controller) ToggleRanking(id uint) []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Toggle(id)
	return c.viewLocked()
}

// ToggleTier selects or deselects a whole tier. The group must have been
// built from the current selection.
func (c *Controller) ToggleTier(group taxonomy.RankGroup) []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.ToggleGroup(group)
	return c.viewLocked()
}

// ClearFilter removes the ranking filter.
func (c *Controller) ClearFilter() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
	return c.viewLocked()
}

// SetSortOrder changes the order of the view.
func (c *Controller) SetSortOrder(order SortOrder) ([]models.Post, error) {
	if order != Newest && order != Oldest {
		return nil, models.NewValidationError("Invalid sort order: " + string(order))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = order
	return c.viewLocked(), nil
}

// View returns the filtered, sorted posts.
func (c *Controller) View() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() []models.Post {
	return SortPosts(FilterPosts(c.posts, c.selection), c.order)
}

// Posts returns a copy of the canonical, unfiltered set.
func (c *Controller) Posts() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Post(nil), c.posts...)
}

// Selection returns a copy of the ranking selection.
func (c *Controller) Selection() *taxonomy.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Clone()
}

// SortOrder returns the active sort order.
func (c *Controller) SortOrder() SortOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

// ActiveGame returns the game of the last successful load.
func (c *Controller) ActiveGame() models.GameType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.game
}

// Scope returns the active scope.
func (c *Controller) Scope() Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}
