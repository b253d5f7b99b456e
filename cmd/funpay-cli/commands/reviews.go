package commands

import (
	"os"
	"strconv"

	"funpay-client/lib/serviceutil"
	"funpay-client/scraper/view"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	reviewsPages *int
	reviewsStars *int
)

func init() {
	reviewsPages = reviewsCmd.Flags().Int("pages", 1, "How many continuation pages to fetch at most.")
	reviewsStars = reviewsCmd.Flags().Int("stars", 0, "Only fetch reviews with this star rating, 0 fetches all.")
	rootCmd.AddCommand(reviewsCmd)
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews <user-id> [--pages <n>] [--stars <n>]",
	Short: "Prints the reviews left on a seller.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("user id must be a number", err)
		}

		reviews, err := newViewClient().SellerReviews(cmd.Context(), view.SellerReviewsQuery{
			UserId: userId,
			Pages:  *reviewsPages,
			Stars:  *reviewsStars,
		})
		if err != nil {
			serviceutil.Fatal("failed to fetch reviews", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Game", "Price", "Stars", "Text"})
		t.AppendRows(lo.Map(reviews, func(review view.SellerReview, _ int) table.Row {
			return table.Row{review.GameTitle, review.Price, review.Stars, review.Text}
		}))
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
