package commands

import (
	"fmt"

	"funpay-client/lib/serviceutil"
	"funpay-client/scraper/edit"

	"github.com/spf13/cobra"
)

var (
	deleteOfferId *int64
	deleteLotId   *int64
)

func init() {
	deleteOfferId = deleteOfferCmd.Flags().Int64("offer", 0, "The offer to delete.")
	deleteLotId = deleteOfferCmd.Flags().Int64("lot", 0, "The lot the offer belongs to.")
	deleteOfferCmd.MarkFlagRequired("offer")
	deleteOfferCmd.MarkFlagRequired("lot")
	rootCmd.AddCommand(deleteOfferCmd)
}

var deleteOfferCmd = &cobra.Command{
	Use:   "delete-offer --offer <id> --lot <id>",
	Short: "Deletes one of the account's offers.",
	Run: func(cmd *cobra.Command, args []string) {
		err := newEditClient().DeleteOffer(cmd.Context(), edit.DeleteOffer{
			OfferId: *deleteOfferId,
			LotId:   *deleteLotId,
		})
		if err != nil {
			serviceutil.Fatal("failed to delete offer", err)
		}
		fmt.Println("offer deleted")
	},
}
