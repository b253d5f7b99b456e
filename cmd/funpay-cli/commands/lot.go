package commands

import (
	"fmt"
	"os"
	"strconv"

	"funpay-client/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lotCmd)
}

var lotCmd = &cobra.Command{
	Use:   "lot <id>",
	Short: "Prints a lot with its sibling counters and preview offers.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lotId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("lot id must be a number", err)
		}

		lot, err := newViewClient().Lot(cmd.Context(), lotId)
		if err != nil {
			serviceutil.Fatal("failed to fetch lot", err)
		}

		fmt.Printf("%s (lot %d, game %d)\n%s\n\n", lot.Title, lot.Id, lot.GameId, lot.Description)

		if len(lot.Counters) > 0 {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Lot", "Param", "Offers"})
			for _, counter := range lot.Counters {
				t.AppendRow(table.Row{counter.LotId, counter.Param, counter.Counter})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Offer", "Description", "Price", "Auto", "Seller", "Reviews"})
		for _, offer := range lot.PreviewOffers {
			t.AppendRow(table.Row{
				offer.OfferId,
				offer.ShortDescription,
				offer.Price,
				offer.AutoDelivery,
				offer.Seller.Username,
				offer.Seller.ReviewCount,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
