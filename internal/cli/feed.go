package cli

import (
	"fmt"
	"text/tabwriter"

	"gamerhub/internal/feed"
	"gamerhub/internal/models"
	"gamerhub/internal/taxonomy"

	"github.com/spf13/cobra"
)

type feedOptions struct {
	game      string
	ranks     []uint
	tiers     []string
	sort      string
	mine      bool
	following bool
}

func newFeedCommand(a *app) *cobra.Command {
	var opts feedOptions
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List posts, optionally filtered by game and rank",
		Example: `  gamerhub feed --game valorant --tier Gold --tier Platinum
  gamerhub feed --following --sort oldest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			posts, err := a.loadFeed(cmd, opts)
			if err != nil {
				return err
			}
			return a.printPosts(posts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.game, "game", "g", string(taxonomy.AllGames), "game slug: all-games, valorant or league-of-legends")
	f.UintSliceVar(&opts.ranks, "rank", nil, "only posts tagged with this ranking id (repeatable)")
	f.StringSliceVar(&opts.tiers, "tier", nil, "only posts in this tier, e.g. Gold (repeatable)")
	f.StringVar(&opts.sort, "sort", string(feed.Newest), "newest or oldest")
	f.BoolVar(&opts.mine, "mine", false, "only your own posts")
	f.BoolVar(&opts.following, "following", false, "only posts by users you follow")
	cmd.MarkFlagsMutuallyExclusive("mine", "following")
	return cmd
}

func (a *app) loadFeed(cmd *cobra.Command, opts feedOptions) ([]models.Post, error) {
	order, err := feed.ParseSortOrder(opts.sort)
	if err != nil {
		return nil, err
	}
	game, ok := taxonomy.SlugToGame(opts.game)
	if !ok {
		return nil, models.NewValidationError("Unknown game: " + opts.game)
	}
	backend := taxonomy.GameToBackend(game)

	c := feed.New(a.client)
	if _, err := c.SetSortOrder(order); err != nil {
		return nil, err
	}

	switch {
	case opts.mine:
		if err := a.requireSession(); err != nil {
			return nil, err
		}
		_, err = c.LoadUserFeed(ctx(cmd))
	case opts.following:
		if err := a.requireSession(); err != nil {
			return nil, err
		}
		_, err = c.LoadFollowingFeed(ctx(cmd))
	default:
		_, err = c.LoadFeed(ctx(cmd), backend)
	}
	if err != nil {
		return nil, err
	}

	if len(opts.ranks) > 0 {
		c.SetFilter(opts.ranks...)
	}
	if len(opts.tiers) > 0 {
		rankings, err := a.rankingsFor(cmd, backend)
		if err != nil {
			return nil, err
		}
		for _, tier := range opts.tiers {
			group, ok := taxonomy.FindGroup(taxonomy.GroupRankings(rankings, c.Selection()), tier)
			if !ok {
				return nil, models.NewValidationError("Unknown tier: " + tier)
			}
			if !group.FullySelected() {
				c.ToggleTier(group)
			}
		}
	}
	return c.View(), nil
}

func (a *app) rankingsFor(cmd *cobra.Command, game models.GameType) ([]models.Ranking, error) {
	if game == models.GameGeneral {
		return a.client.ListAllRankings(ctx(cmd))
	}
	return a.client.ListRankings(ctx(cmd), game)
}

func (a *app) printPosts(posts []models.Post) error {
	views := viewPosts(posts)
	return a.out.emit(views, func(tw *tabwriter.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(tw, "No posts yet.")
			return
		}
		fmt.Fprintln(tw, "ID\tAUTHOR\tGAME\tRANK\tCOMMENTS\tPOSTED\tCONTENT")
		for _, p := range views {
			rank := p.Rank
			if rank == "" {
				rank = "-"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
				p.ID, p.Author, gameLabel(p.Game), rank, p.Comments, stamp(p.Posted), excerpt(p.Content, 60))
		}
	})
}

func gameLabel(backend string) string {
	if g, ok := taxonomy.BackendToGame(models.GameType(backend)); ok {
		return g.Label()
	}
	return backend
}
