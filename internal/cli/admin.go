package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"gamerhub/internal/comments"
	"gamerhub/internal/models"

	"github.com/spf13/cobra"
)

func newAdminCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderation tools for admins",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "comments",
			Short: "Show the moderation queue: every comment, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				queue, err := a.comments().ModerationQueue(ctx(cmd))
				if err != nil {
					return err
				}
				return a.printComments(queue)
			},
		},
		&cobra.Command{
			Use:   "edit-comment <comment-id> <content...>",
			Short: "Rewrite any comment from the moderation queue",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				panel, target, err := a.queued(ctx(cmd), args[0])
				if err != nil {
					return err
				}
				updated, err := panel.ModerateEdit(ctx(cmd), target, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				a.out.message("Updated comment %d.", updated.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete-comment <comment-id>",
			Short: "Remove any comment from the moderation queue",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				panel, target, err := a.queued(ctx(cmd), args[0])
				if err != nil {
					return err
				}
				if err := panel.Moderate(ctx(cmd), target); err != nil {
					return err
				}
				a.out.message("Deleted comment %d.", target.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "users",
			Short: "List every account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				users, err := a.client.ListAdminUsers(ctx(cmd))
				if err != nil {
					return err
				}
				views := viewUsers(users)
				return a.out.emit(views, func(tw *tabwriter.Writer) {
					fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tADMIN")
					for _, u := range views {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.IsAdmin)
					}
				})
			},
		},
	)
	return cmd
}

// queued finds a comment in the moderation queue.
func (a *app) queued(ctx context.Context, raw string) (*comments.Controller, models.Comment, error) {
	if err := a.requireSession(); err != nil {
		return nil, models.Comment{}, err
	}
	id, err := parseID("comment ID", raw)
	if err != nil {
		return nil, models.Comment{}, err
	}
	panel := a.comments()
	queue, err := panel.ModerationQueue(ctx)
	if err != nil {
		return nil, models.Comment{}, err
	}
	for _, c := range queue {
		if c.ID == id {
			return panel, c, nil
		}
	}
	return nil, models.Comment{}, models.NewNotFoundError("Comment", id)
}
