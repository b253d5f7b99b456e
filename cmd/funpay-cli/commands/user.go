package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"funpay-client/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Prints a user profile, including seller stats when present.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("user id must be a number", err)
		}

		user, err := newViewClient().User(cmd.Context(), userId)
		if err != nil {
			serviceutil.Fatal("failed to fetch user", err)
		}

		fmt.Printf("%s (user %d)\n", user.Username, user.Id)
		if len(user.Badges) > 0 {
			fmt.Printf("badges: %s\n", strings.Join(user.Badges, ", "))
		}
		fmt.Printf("online: %v\n", user.Online)
		fmt.Printf("registered: %s\n", user.RegisteredAt.Format(time.DateTime))
		if !user.LastSeenAt.IsZero() {
			fmt.Printf("last seen: %s\n", user.LastSeenAt.Format(time.DateTime))
		}

		if user.Seller == nil {
			return
		}
		fmt.Printf("\nseller rating %.1f over %d reviews\n", user.Seller.Rating, user.Seller.ReviewCount)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Offer", "Description", "Price", "Auto"})
		for _, offer := range user.Seller.PreviewOffers {
			t.AppendRow(table.Row{offer.OfferId, offer.ShortDescription, offer.Price, offer.AutoDelivery})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
