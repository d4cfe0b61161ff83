package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"gamerhub/internal/models"
)

// ListComments fetches the comments of a post. No comments is an empty slice.
func (c *Client) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if err := validateID("post ID", postID); err != nil {
		return nil, err
	}
	var raw []wireComment
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/comments/post/%d", postID),
		route:  "/api/comments/post/:postId",
		out:    &raw,
	})
	if err != nil {
		return nil, err
	}
	return commentsFromWire(raw), nil
}

// CreateComment adds a comment to a post.
func (c *Client) CreateComment(ctx context.Context, content string, postID uint) (*models.Comment, error) {
	if err := validateID("post ID", postID); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	var raw wireComment
	err = c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/comments",
		route:  "/api/comments",
		body:   models.CommentRequest{Content: content, PostID: postID},
		out:    &raw,
	})
	if err != nil {
		return nil, err
	}
	comment := raw.model()
	return &comment, nil
}

// UpdateComment replaces the content of a comment.
func (c *Client) UpdateComment(ctx context.Context, id uint, content string, postID uint) (*models.Comment, error) {
	if err := validateID("comment ID", id); err != nil {
		return nil, err
	}
	if err := validateID("post ID", postID); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	var raw wireComment
	err = c.do(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/comments/%d", id),
		route:  "/api/comments/:id",
		body:   models.CommentRequest{Content: content, PostID: postID},
		out:    &raw,
	})
	if err != nil {
		return nil, err
	}
	comment := raw.model()
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id uint) error {
	if err := validateID("comment ID", id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/api/comments/%d", id), route: "/api/comments/:id"})
}
