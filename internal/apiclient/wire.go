package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gamerhub/internal/models"
)

// Layouts the backend has been seen to emit. Zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := parseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp: unrecognized format %q", raw)
}

type wireUser struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Avatar  string `json:"avatar"`
	IsAdmin bool   `json:"isAdmin"`
}

// normalizeUser substitutes the sentinel author for a missing user.
func normalizeUser(u *wireUser) models.User {
	if u == nil {
		return models.UnknownUser()
	}
	picture := u.Picture
	if picture == "" {
		picture = u.Avatar
	}
	return models.User{ID: u.ID, Name: u.Name, Email: u.Email, Picture: picture, IsAdmin: u.IsAdmin}
}

type wireRanking struct {
	ID           uint   `json:"id"`
	GameType     string `json:"gameType"`
	RankingName  string `json:"rankingName"`
	RankingScore int    `json:"rankingScore"`
	RankingType  string `json:"rankingType"`
}

func (r *wireRanking) model() *models.Ranking {
	if r == nil {
		return nil
	}
	return &models.Ranking{
		ID:           r.ID,
		GameType:     models.GameType(r.GameType),
		RankingName:  r.RankingName,
		RankingScore: r.RankingScore,
		RankingType:  models.RankingType(r.RankingType),
	}
}

type wireComment struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt timestamp `json:"createdAt"`
	UpdatedAt timestamp `json:"updatedAt"`
	User      *wireUser `json:"user"`
	PostID    uint      `json:"postId"`
}

func (c wireComment) model() models.Comment {
	user := normalizeUser(c.User)
	return models.Comment{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
		User:      user,
		UserID:    user.ID,
		PostID:    c.PostID,
	}
}

type wirePost struct {
	ID             uint          `json:"id"`
	Content        string        `json:"content"`
	ImageURL       string        `json:"imageUrl"`
	CreatedAt      timestamp     `json:"createdAt"`
	UpdatedAt      timestamp     `json:"updatedAt"`
	GameType       string        `json:"gameType"`
	GameRanking    *wireRanking  `json:"gameRanking"`
	User           *wireUser     `json:"user"`
	CommentCount   int           `json:"commentCount"`
	RecentComments []wireComment `json:"recentComments"`
}

func (p wirePost) model() models.Post {
	user := normalizeUser(p.User)
	gameType := models.GameType(p.GameType)
	if gameType == "" {
		gameType = models.GameGeneral
	}
	post := models.Post{
		ID:           p.ID,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt.Time,
		UpdatedAt:    p.UpdatedAt.Time,
		GameType:     gameType,
		GameRanking:  p.GameRanking.model(),
		User:         user,
		UserID:       user.ID,
		CommentCount: p.CommentCount,
	}
	if post.CommentCount < 0 {
		post.CommentCount = 0
	}
	if post.GameRanking != nil {
		id := post.GameRanking.ID
		post.GameRankingID = &id
	}
	for _, c := range p.RecentComments {
		post.RecentComments = append(post.RecentComments, c.model())
	}
	return post
}

func postsFromWire(in []wirePost) []models.Post {
	out := make([]models.Post, 0, len(in))
	for _, p := range in {
		out = append(out, p.model())
	}
	return out
}

func commentsFromWire(in []wireComment) []models.Comment {
	out := make([]models.Comment, 0, len(in))
	for _, c := range in {
		out = append(out, c.model())
	}
	return out
}

type wireAuth struct {
	Token      string    `json:"token"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	PictureURL string    `json:"pictureUrl"`
	User       *wireUser `json:"user"`
}

// user prefers the embedded user and falls back to the flat fields, in which
// case identity is carried by email alone.
func (a wireAuth) user() models.User {
	if a.User != nil {
		u := normalizeUser(a.User)
		if u.Picture == "" {
			u.Picture = a.PictureURL
		}
		return u
	}
	return models.User{Name: a.Name, Email: a.Email, Picture: a.PictureURL}
}
