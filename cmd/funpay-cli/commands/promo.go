package commands

import (
	"os"
	"strings"

	"funpay-client/lib/serviceutil"
	"funpay-client/scraper/view"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(promoCmd)
}

var promoCmd = &cobra.Command{
	Use:   "promo <query>",
	Short: "Searches the promoted games.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		games, err := newViewClient().PromoGames(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to search promo games", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Lot", "Game", "Counters"})
		t.AppendRows(lo.Map(games, func(game view.PromoGame, _ int) table.Row {
			counters := lo.Map(game.Counters, func(counter view.PromoGameCounter, _ int) string {
				return counter.Title
			})
			return table.Row{game.LotId, game.Title, strings.Join(counters, ", ")}
		}))
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
