package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gamerhub/internal/models"

	"gopkg.in/yaml.v3"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

// emit writes v as yaml or json, or calls text with a tabwriter.
func (p *printer) emit(v any, text func(tw *tabwriter.Writer)) error {
	switch p.format {
	case "yaml":
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
		text(tw)
		return tw.Flush()
	}
}

func (p *printer) message(format string, args ...any) {
	if p.format != "text" {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

type userView struct {
	ID      uint   `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	IsAdmin bool   `json:"isAdmin" yaml:"isAdmin"`
}

func viewUser(u models.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

func viewUsers(in []models.User) []userView {
	out := make([]userView, 0, len(in))
	for _, u := range in {
		out = append(out, viewUser(u))
	}
	return out
}

type commentView struct {
	ID        uint      `json:"id" yaml:"id"`
	PostID    uint      `json:"postId" yaml:"postId"`
	Author    string    `json:"author" yaml:"author"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func viewComments(in []models.Comment) []commentView {
	out := make([]commentView, 0, len(in))
	for _, c := range in {
		out = append(out, commentView{ID: c.ID, PostID: c.PostID, Author: c.User.Name, Content: c.Content, CreatedAt: c.CreatedAt})
	}
	return out
}

type postView struct {
	ID       uint      `json:"id" yaml:"id"`
	Author   string    `json:"author" yaml:"author"`
	Game     string    `json:"game" yaml:"game"`
	Rank     string    `json:"rank,omitempty" yaml:"rank,omitempty"`
	Content  string    `json:"content" yaml:"content"`
	Comments int       `json:"comments" yaml:"comments"`
	Posted   time.Time `json:"createdAt" yaml:"createdAt"`
}

func viewPosts(in []models.Post) []postView {
	out := make([]postView, 0, len(in))
	for _, p := range in {
		v := postView{
			ID:       p.ID,
			Author:   p.User.Name,
			Game:     string(p.GameType),
			Content:  p.Content,
			Comments: p.CommentCount,
			Posted:   p.CreatedAt,
		}
		if p.GameRanking != nil {
			v.Rank = p.GameRanking.RankingName
		}
		out = append(out, v)
	}
	return out
}

// excerpt keeps table rows on one line.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
