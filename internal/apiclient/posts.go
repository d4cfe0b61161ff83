package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"gamerhub/internal/models"
)

// ListPosts fetches every post.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	return c.listPosts(ctx, "/api/posts", "/api/posts")
}

// ListPostsByGame fetches the posts of one game.
func (c *Client) ListPostsByGame(ctx context.Context, gameType models.GameType) ([]models.Post, error) {
	if !gameType.Valid() {
		return nil, models.NewValidationError("Invalid game type: " + string(gameType))
	}
	return c.listPosts(ctx, "/api/posts/game/"+string(gameType), "/api/posts/game/:gameType")
}

// ListUserPosts fetches the signed-in user's posts.
func (c *Client) ListUserPosts(ctx context.Context) ([]models.Post, error) {
	return c.listPosts(ctx, "/api/posts/user", "/api/posts/user")
}

// ListFollowingPosts fetches posts by users the signed-in user follows.
func (c *Client) ListFollowingPosts(ctx context.Context) ([]models.Post, error) {
	return c.listPosts(ctx, "/api/posts/following", "/api/posts/following")
}

func (c *Client) listPosts(ctx context.Context, path, route string) ([]models.Post, error) {
	var raw []wirePost
	if err := c.do(ctx, call{method: http.MethodGet, path: path, route: route, out: &raw}); err != nil {
		return nil, err
	}
	return postsFromWire(raw), nil
}

// CreatePost publishes a post. A GENERAL post carries no ranking.
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}
	req.Content = content
	if req.GameType == "" {
		req.GameType = models.GameGeneral
	}
	if !req.GameType.Valid() {
		return nil, models.NewValidationError("Invalid game type: " + string(req.GameType))
	}
	if req.GameType == models.GameGeneral {
		req.RankingID = nil
	}

	var raw wirePost
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/posts", route: "/api/posts", body: req, out: &raw}); err != nil {
		return nil, err
	}
	post := raw.model()
	return &post, nil
}

// UpdatePost replaces the content of a post. Content is the only editable field.
func (c *Client) UpdatePost(ctx context.Context, id uint, content string) (*models.Post, error) {
	if err := validateID("post ID", id); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	var raw wirePost
	err = c.do(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/posts/%d", id),
		route:  "/api/posts/:id",
		body:   models.UpdatePostRequest{Content: content},
		out:    &raw,
	})
	if err != nil {
		return nil, err
	}
	post := raw.model()
	return &post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	if err := validateID("post ID", id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/api/posts/%d", id), route: "/api/posts/:id"})
}
