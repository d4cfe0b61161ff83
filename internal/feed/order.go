package feed

import (
	"sort"
	"strings"

	"gamerhub/internal/models"
	"gamerhub/internal/taxonomy"
)

// SortOrder orders the feed by creation time.
type SortOrder string

const (
	Newest SortOrder = "newest"
	Oldest SortOrder = "oldest"
)

// ParseSortOrder accepts "newest" or "oldest" in any case. Empty is Newest.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Newest:
		return Newest, nil
	case Oldest:
		return Oldest, nil
	default:
		return "", models.NewValidationError("Invalid sort order: " + raw)
	}
}

// FilterPosts keeps posts whose ranking is selected. An empty selection keeps
// everything; otherwise unranked posts are dropped. The input is not modified.
func FilterPosts(posts []models.Post, sel *taxonomy.Selection) []models.Post {
	out := make([]models.Post, 0, len(posts))
	if sel.Empty() {
		return append(out, posts...)
	}
	for _, p := range posts {
		if id := p.RankingID(); id != 0 && sel.Has(id) {
			out = append(out, p)
		}
	}
	return out
}

// SortPosts returns posts ordered by CreatedAt, ties broken by ID in the same
// direction, so the result does not depend on input order.
func SortPosts(posts []models.Post, order SortOrder) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	oldest := order == Oldest
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if oldest {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if oldest {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	return out
}
