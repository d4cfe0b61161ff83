package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"gamerhub/internal/models"
	"gamerhub/internal/taxonomy"

	"github.com/spf13/cobra"
)

func newPostCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, edit or delete your posts",
	}
	cmd.AddCommand(newPostCreateCommand(a), newPostEditCommand(a), newPostDeleteCommand(a))
	return cmd
}

func newPostCreateCommand(a *app) *cobra.Command {
	var game, image string
	var rank uint
	cmd := &cobra.Command{
		Use:   "create <content>",
		Short: "Publish a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			g, ok := taxonomy.SlugToGame(game)
			if !ok {
				return models.NewValidationError("Unknown game: " + game)
			}
			req := models.CreatePostRequest{
				Content:  strings.Join(args, " "),
				GameType: taxonomy.GameToBackend(g),
				ImageURL: image,
			}
			if rank != 0 {
				req.RankingID = &rank
			}
			post, err := a.client.CreatePost(ctx(cmd), req)
			if err != nil {
				return err
			}
			return a.out.emit(viewPosts([]models.Post{*post})[0], func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Created post %d.\n", post.ID)
			})
		},
	}
	cmd.Flags().StringVarP(&game, "game", "g", string(taxonomy.AllGames), "game slug")
	cmd.Flags().UintVarP(&rank, "rank", "r", 0, "ranking id to tag the post with")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	return cmd
}

func newPostEditCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <post-id> <content>",
		Short: "Replace the content of one of your posts",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID("post ID", args[0])
			if err != nil {
				return err
			}
			if _, err := a.client.UpdatePost(ctx(cmd), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			a.out.message("Updated post %d.", id)
			return nil
		},
	}
}

func newPostDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post (yours, or any post as an admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID("post ID", args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeletePost(ctx(cmd), id); err != nil {
				return err
			}
			a.out.message("Deleted post %d.", id)
			return nil
		},
	}
}

func parseID(name, raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewValidationError(fmt.Sprintf("Invalid %s: %q", name, raw))
	}
	return uint(id), nil
}
