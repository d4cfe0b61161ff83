package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"gamerhub/internal/models"
	"gamerhub/internal/taxonomy"

	"github.com/spf13/cobra"
)

type tierView struct {
	Tier     string           `json:"tier" yaml:"tier"`
	Rankings []models.Ranking `json:"rankings" yaml:"rankings"`
}

func newRankingsCommand(a *app) *cobra.Command {
	var game string
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "List a game's ranking ladder grouped by tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, ok := taxonomy.SlugToGame(game)
			if !ok {
				return models.NewValidationError("Unknown game: " + game)
			}
			rankings, err := a.rankingsFor(cmd, taxonomy.GameToBackend(g))
			if err != nil {
				return err
			}
			groups := taxonomy.GroupRankings(rankings, nil)
			views := make([]tierView, 0, len(groups))
			for _, grp := range groups {
				views = append(views, tierView{Tier: grp.Tier, Rankings: grp.Members})
			}
			return a.out.emit(views, func(tw *tabwriter.Writer) {
				if len(views) == 0 {
					fmt.Fprintln(tw, "No rankings.")
					return
				}
				fmt.Fprintln(tw, "TIER\tRANKINGS")
				for _, v := range views {
					names := make([]string, 0, len(v.Rankings))
					for _, r := range v.Rankings {
						names = append(names, fmt.Sprintf("%s (#%d)", r.RankingName, r.ID))
					}
					fmt.Fprintf(tw, "%s\t%s\n", v.Tier, strings.Join(names, ", "))
				}
			})
		},
	}
	cmd.Flags().StringVarP(&game, "game", "g", string(taxonomy.Valorant), "game slug")
	return cmd
}
