// Package comments manages the per-post comment panels: lazy loading while a
// panel is expanded, ownership-checked mutations, and telling the feed that a
// post's comment count changed.
package comments

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gamerhub/internal/models"
	"gamerhub/internal/observability"
)

var (
	// ErrCollapsed is returned when loading a panel that is not expanded. No request is made.
	ErrCollapsed = errors.New("comments: panel is collapsed")
	// ErrSuperseded is returned when a newer load or a collapse overtook this one.
	ErrSuperseded = errors.New("comments: load superseded")
)

// CommentSource is the subset of the API client the controller needs.
type CommentSource interface {
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	CreateComment(ctx context.Context, content string, postID uint) (*models.Comment, error)
	UpdateComment(ctx context.Context, id uint, content string, postID uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	ListAdminComments(ctx context.Context) ([]models.Comment, error)
}

// Viewer reports who is signed in.
type Viewer interface {
	User() (models.User, bool)
}

// Invalidator is told when a post's comments changed. The feed controller implements it.
type Invalidator interface {
	CommentsChanged(ctx context.Context, postID uint) error
}

type panel struct {
	expanded   bool
	comments   []models.Comment
	generation uint64
}

// Controller is safe for concurrent use.
type Controller struct {
	source CommentSource
	viewer Viewer
	feed   Invalidator

	mu     sync.Mutex
	panels map[uint]*panel
}

// New returns a controller. feed may be nil.
func New(source CommentSource, viewer Viewer, feed Invalidator) *Controller {
	return &Controller{
		source: source,
		viewer: viewer,
		feed:   feed,
		panels: make(map[uint]*panel),
	}
}

// CanModify reports whether viewer may edit or delete content written by author.
func CanModify(viewer, author models.User) bool {
	return viewer.IsAdmin || viewer.Ref().Equals(author.Ref())
}

// Expand opens the panel of postID and loads its comments.
func (c *Controller) Expand(ctx context.Context, postID uint) ([]models.Comment, error) {
	c.mu.Lock()
	p := c.panelLocked(postID)
	p.expanded = true
	c.mu.Unlock()
	return c.LoadComments(ctx, postID)
}

// Collapse closes the panel and drops its comments. In-flight loads are discarded.
func (c *Controller) Collapse(postID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panels[postID]
	if !ok {
		return
	}
	p.expanded = false
	p.comments = nil
	p.generation++
}

// Expanded reports whether the panel of postID is open.
func (c *Controller) Expanded(postID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panels[postID]
	return ok && p.expanded
}

// Comments returns the last loaded comments of postID.
func (c *Controller) Comments(postID uint) []models.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panels[postID]
	if !ok {
		return nil
	}
	return append([]models.Comment(nil), p.comments...)
}

// LoadComments fetches the comments of an expanded panel.
func (c *Controller) LoadComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	c.mu.Lock()
	p, ok := c.panels[postID]
	if !ok || !p.expanded {
		c.mu.Unlock()
		return nil, ErrCollapsed
	}
	p.generation++
	gen := p.generation
	c.mu.Unlock()

	list, err := c.source.ListComments(ctx, postID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if p.generation != gen || !p.expanded {
		observability.SupersededLoads.WithLabelValues("comments").Inc()
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Comment{}
	}
	p.comments = list
	return append([]models.Comment{}, list...), nil
}

// AddComment posts a comment as the signed-in user.
func (c *Controller) AddComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	if _, ok := c.viewer.User(); !ok {
		return nil, models.NewUnauthorizedError("Sign in to comment")
	}

	created, err := c.source.CreateComment(ctx, content, postID)
	if err != nil {
		return nil, err
	}
	return created, c.afterMutation(ctx, postID)
}

// EditComment replaces the content of a comment shown in the panel of postID.
func (c *Controller) EditComment(ctx context.Context, postID, commentID uint, content string) (*models.Comment, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	target, err := c.owned(postID, commentID)
	if err != nil {
		return nil, err
	}

	updated, err := c.source.UpdateComment(ctx, target.ID, content, target.PostID)
	if err != nil {
		return nil, err
	}
	return updated, c.afterMutation(ctx, postID)
}

// DeleteComment removes a comment shown in the panel of postID.
func (c *Controller) DeleteComment(ctx context.Context, postID, commentID uint) error {
	target, err := c.owned(postID, commentID)
	if err != nil {
		return err
	}
	return c.remove(ctx, target)
}

// ModerationQueue lists every comment for an admin.
func (c *Controller) ModerationQueue(ctx context.Context) ([]models.Comment, error) {
	if viewer, ok := c.viewer.User(); !ok || !viewer.IsAdmin {
		return nil, models.NewUnauthorizedError("Admin access required")
	}
	list, err := c.source.ListAdminComments(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Comment{}
	}
	return list, nil
}

// Moderate deletes a comment taken from the moderation queue.
func (c *Controller) Moderate(ctx context.Context, comment models.Comment) error {
	viewer, ok := c.viewer.User()
	if !ok || !CanModify(viewer, comment.User) {
		return models.NewUnauthorizedError("Not authorized to delete this comment")
	}
	return c.remove(ctx, comment)
}

// ModerateEdit replaces the content of a comment taken from the moderation queue.
func (c *Controller) ModerateEdit(ctx context.Context, comment models.Comment, content string) (*models.Comment, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	viewer, ok := c.viewer.User()
	if !ok || !CanModify(viewer, comment.User) {
		return nil, models.NewUnauthorizedError("Not authorized to modify this comment")
	}
	updated, err := c.source.UpdateComment(ctx, comment.ID, content, comment.PostID)
	if err != nil {
		return nil, err
	}
	return updated, c.afterMutation(ctx, comment.PostID)
}

func (c *Controller) remove(ctx context.Context, comment models.Comment) error {
	if err := c.source.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}
	return c.afterMutation(ctx, comment.PostID)
}

// owned finds a loaded comment and checks the viewer may change it.
func (c *Controller) owned(postID, commentID uint) (models.Comment, error) {
	viewer, ok := c.viewer.User()
	if !ok {
		return models.Comment{}, models.NewUnauthorizedError("Sign in to change comments")
	}

	c.mu.Lock()
	var target *models.Comment
	if p, found := c.panels[postID]; found {
		for i := range p.comments {
			if p.comments[i].ID == commentID {
				cp := p.comments[i]
				target = &cp
				break
			}
		}
	}
	c.mu.Unlock()

	if target == nil {
		return models.Comment{}, models.NewNotFoundError("Comment", commentID)
	}
	if !CanModify(viewer, target.User) {
		return models.Comment{}, models.NewUnauthorizedError("Not authorized to modify this comment")
	}
	if target.PostID == 0 {
		target.PostID = postID
	}
	return *target, nil
}

// afterMutation re-fetches the panel, if open, and tells the feed.
func (c *Controller) afterMutation(ctx context.Context, postID uint) error {
	var errs []error
	if _, err := c.LoadComments(ctx, postID); err != nil && !errors.Is(err, ErrCollapsed) && !errors.Is(err, ErrSuperseded) {
		errs = append(errs, err)
	}
	if c.feed != nil {
		if err := c.feed.CommentsChanged(ctx, postID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) panelLocked(postID uint) *panel {
	p, ok := c.panels[postID]
	if !ok {
		p = &panel{}
		c.panels[postID] = p
	}
	return p
}

func validContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", models.NewValidationError("Comment content cannot be empty")
	}
	return trimmed, nil
}
