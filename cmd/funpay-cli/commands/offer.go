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
	rootCmd.AddCommand(offerCmd)
}

var offerCmd = &cobra.Command{
	Use:   "offer <id>",
	Short: "Prints a single offer with its parameters and seller.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		offerId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("offer id must be a number", err)
		}

		offer, err := newViewClient().Offer(cmd.Context(), offerId)
		if err != nil {
			serviceutil.Fatal("failed to fetch offer", err)
		}

		fmt.Printf("offer %d, %.2f ₽ (auto delivery: %v)\n", offer.Id, offer.Price, offer.AutoDelivery)
		if offer.ShortDescription != "" {
			fmt.Println(offer.ShortDescription)
		}
		fmt.Printf("\n%s\n\n", offer.DetailedDescription)
		fmt.Printf("seller: %s (user %d, %d reviews)\n", offer.Seller.Username, offer.Seller.UserId, offer.Seller.ReviewCount)

		if len(offer.Parameters) > 0 {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Parameter", "Value"})
			for key, value := range offer.Parameters {
				t.AppendRow(table.Row{key, value})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
		}
		for _, link := range offer.AttachmentLinks {
			fmt.Println(link)
		}
	},
}
