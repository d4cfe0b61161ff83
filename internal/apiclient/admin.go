package apiclient

import (
	"context"
	"net/http"

	"gamerhub/internal/models"
)

// ListAdminComments fetches every comment for moderation. Admin only.
func (c *Client) ListAdminComments(ctx context.Context) ([]models.Comment, error) {
	var raw []wireComment
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/admin/comments", route: "/api/admin/comments", out: &raw})
	if err != nil {
		return nil, err
	}
	return commentsFromWire(raw), nil
}

// ListAdminUsers fetches every account. Admin only.
func (c *Client) ListAdminUsers(ctx context.Context) ([]models.User, error) {
	return c.listUsers(ctx, "/api/admin/users", "/api/admin/users")
}

func (c *Client) listUsers(ctx context.Context, path, route string) ([]models.User, error) {
	var raw []wireUser
	err := c.do(ctx, call{method: http.MethodGet, path: path, route: route, out: &raw})
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(raw))
	for i := range raw {
		out = append(out, normalizeUser(&raw[i]))
	}
	return out, nil
}
