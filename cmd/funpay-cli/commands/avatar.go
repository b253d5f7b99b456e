package commands

import (
	"fmt"
	"os"

	"funpay-client/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(avatarCmd)
	rootCmd.AddCommand(uploadImageCmd)
}

var avatarCmd = &cobra.Command{
	Use:   "avatar <path/to/image.jpg>",
	Short: "Replaces the account avatar.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		image, err := os.ReadFile(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read image", err)
		}
		if err := newEditClient().UpdateAvatar(cmd.Context(), image); err != nil {
			serviceutil.Fatal("failed to update avatar", err)
		}
		fmt.Println("avatar updated")
	},
}

var uploadImageCmd = &cobra.Command{
	Use:   "upload-image <path/to/image.jpg>",
	Short: "Uploads an image for later use in an offer and prints its id.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		image, err := os.ReadFile(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read image", err)
		}
		imageId, err := newEditClient().CreateOfferImage(cmd.Context(), image)
		if err != nil {
			serviceutil.Fatal("failed to upload image", err)
		}
		fmt.Println(imageId)
	},
}
