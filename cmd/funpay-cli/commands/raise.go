package commands

import (
	"errors"
	"fmt"

	"funpay-client/lib/serviceutil"
	"funpay-client/scraper/core"
	"funpay-client/scraper/edit"

	"github.com/spf13/cobra"
)

var (
	raiseGameId *int64
	raiseLotId  *int64
)

func init() {
	raiseGameId = raiseCmd.Flags().Int64("game", 0, "The game the lot belongs to.")
	raiseLotId = raiseCmd.Flags().Int64("lot", 0, "The lot whose offers to raise.")
	raiseCmd.MarkFlagRequired("game")
	raiseCmd.MarkFlagRequired("lot")
	rootCmd.AddCommand(raiseCmd)
}

var raiseCmd = &cobra.Command{
	Use:   "raise --game <id> --lot <id>",
	Short: "Raises all of the account's offers under a lot.",
	Run: func(cmd *cobra.Command, args []string) {
		err := newEditClient().RaiseAllOffers(cmd.Context(), edit.RaiseAllOffers{
			GameId: *raiseGameId,
			LotId:  *raiseLotId,
		})
		var raised *core.OfferAlreadyRaisedError
		if errors.As(err, &raised) {
			fmt.Println(raised.Msg)
			return
		}
		if err != nil {
			serviceutil.Fatal("failed to raise offers", err)
		}
		fmt.Println("offers raised")
	},
}
