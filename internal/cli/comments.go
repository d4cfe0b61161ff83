package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"gamerhub/internal/comments"
	"gamerhub/internal/models"

	"github.com/spf13/cobra"
)

func newCommentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Read and write comments on a post",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <post-id>",
			Short: "List the comments of a post, oldest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID("post ID", args[0])
				if err != nil {
					return err
				}
				list, err := a.comments().Expand(ctx(cmd), postID)
				if err != nil {
					return err
				}
				return a.printComments(list)
			},
		},
		&cobra.Command{
			Use:   "add <post-id> <content>",
			Short: "Comment on a post",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID("post ID", args[0])
				if err != nil {
					return err
				}
				created, err := a.comments().AddComment(ctx(cmd), postID, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				a.out.message("Added comment %d.", created.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit <post-id> <comment-id> <content>",
			Short: "Edit one of your comments",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, commentID, err := commentRef(args)
				if err != nil {
					return err
				}
				panel := a.comments()
				if _, err := panel.Expand(ctx(cmd), postID); err != nil {
					return err
				}
				if _, err := panel.EditComment(ctx(cmd), postID, commentID, strings.Join(args[2:], " ")); err != nil {
					return err
				}
				a.out.message("Updated comment %d.", commentID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <post-id> <comment-id>",
			Short: "Delete a comment (yours, or any comment as an admin)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, commentID, err := commentRef(args)
				if err != nil {
					return err
				}
				panel := a.comments()
				if _, err := panel.Expand(ctx(cmd), postID); err != nil {
					return err
				}
				if err := panel.DeleteComment(ctx(cmd), postID, commentID); err != nil {
					return err
				}
				a.out.message("Deleted comment %d.", commentID)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) comments() *comments.Controller {
	return comments.New(a.client, a.session, nil)
}

func commentRef(args []string) (uint, uint, error) {
	postID, err := parseID("post ID", args[0])
	if err != nil {
		return 0, 0, err
	}
	commentID, err := parseID("comment ID", args[1])
	if err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}

func (a *app) printComments(list []models.Comment) error {
	views := viewComments(list)
	return a.out.emit(views, func(tw *tabwriter.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(tw, "No comments yet.")
			return
		}
		fmt.Fprintln(tw, "ID\tPOST\tAUTHOR\tPOSTED\tCONTENT")
		for _, c := range views {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", c.ID, c.PostID, c.Author, stamp(c.CreatedAt), excerpt(c.Content, 70))
		}
	})
}
