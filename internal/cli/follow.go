package cli

import (
	"fmt"
	"text/tabwriter"

	"gamerhub/internal/apiclient"
	"gamerhub/internal/models"

	"github.com/spf13/cobra"
)

func newFollowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow <user-id>",
		Short: "Follow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID("user ID", args[0])
			if err != nil {
				return err
			}
			if err := a.client.FollowUser(ctx(cmd), id); err != nil {
				return err
			}
			a.out.message("Now following user %d.", id)
			return nil
		},
	}
}

func newUnfollowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow <user-id>",
		Short: "Stop following a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID("user ID", args[0])
			if err != nil {
				return err
			}
			if err := a.client.UnfollowUser(ctx(cmd), id); err != nil {
				return err
			}
			a.out.message("No longer following user %d.", id)
			return nil
		},
	}
}

type followView struct {
	User      uint       `json:"user" yaml:"user"`
	Followers int64      `json:"followers" yaml:"followers"`
	Following int64      `json:"following" yaml:"following"`
	Users     []userView `json:"users,omitempty" yaml:"users,omitempty"`
}

func newFollowersCommand(a *app) *cobra.Command {
	var list, outgoing bool
	cmd := &cobra.Command{
		Use:   "followers [user-id]",
		Short: "Show follow counts for a user (yourself by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.targetUser(args)
			if err != nil {
				return err
			}
			stats, err := a.client.FollowStatsOf(ctx(cmd), id)
			if err != nil {
				return err
			}
			v := followView{User: id, Followers: stats.Followers, Following: stats.Following}
			if list {
				var users []models.User
				if outgoing {
					users, err = a.client.ListFollowing(ctx(cmd), id)
				} else {
					users, err = a.client.ListFollowers(ctx(cmd), id)
				}
				if err != nil {
					return err
				}
				v.Users = viewUsers(users)
			}
			return a.out.emit(v, func(tw *tabwriter.Writer) {
				printFollowText(tw, v, stats)
			})
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "also list the users")
	cmd.Flags().BoolVar(&outgoing, "following", false, "with --list, list followed users instead of followers")
	return cmd
}

func printFollowText(tw *tabwriter.Writer, v followView, stats apiclient.FollowStats) {
	fmt.Fprintf(tw, "Followers\t%d\n", stats.Followers)
	fmt.Fprintf(tw, "Following\t%d\n", stats.Following)
	if len(v.Users) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
		for _, u := range v.Users {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
	}
}

func (a *app) targetUser(args []string) (uint, error) {
	if len(args) == 1 {
		return parseID("user ID", args[0])
	}
	user, ok := a.session.User()
	if !ok {
		return 0, a.requireSession()
	}
	if user.ID == 0 {
		return 0, models.NewValidationError("The stored session has no user ID; pass one explicitly")
	}
	return user.ID, nil
}
