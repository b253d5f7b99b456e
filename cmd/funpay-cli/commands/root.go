package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"funpay-client/lib/configutil"
	"funpay-client/lib/serviceutil"
	"funpay-client/scraper/core"
	"funpay-client/scraper/edit"
	"funpay-client/scraper/view"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "funpay-cli",
	Short: "funpay-cli reads and edits a funpay.com account from the terminal.",
}

var (
	flagGoldenKey *string
	flagBaseUrl   *string
	flagProxy     *string
)

func init() {
	flagGoldenKey = rootCmd.PersistentFlags().String("golden-key", "", "The golden_key account credential, overrides the config file.")
	flagBaseUrl = rootCmd.PersistentFlags().String("base-url", "", "The site to talk to, overrides the config file.")
	flagProxy = rootCmd.PersistentFlags().String("proxy", "", "An http proxy url, overrides the config file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	GoldenKey string `json:"golden_key"`
	BaseUrl   string `json:"base_url"`
	Proxy     string `json:"proxy"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("funpay.json5")
	if err != nil {
		// the config file is optional, everything can come from flags
		slog.Debug("no readable config file, relying on flags", "err", err)
		cfg = Config{}
	}
	if *flagGoldenKey != "" {
		cfg.GoldenKey = *flagGoldenKey
	}
	if *flagBaseUrl != "" {
		cfg.BaseUrl = *flagBaseUrl
	}
	if *flagProxy != "" {
		cfg.Proxy = *flagProxy
	}
	return cfg
}

func newCoreClient() *core.Client {
	cfg := readConfig()
	client, err := core.NewClient(core.ClientOptions{
		BaseUrl:   cfg.BaseUrl,
		Proxy:     cfg.Proxy,
		GoldenKey: cfg.GoldenKey,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize client", err)
	}
	return client
}

func newViewClient() view.Client {
	return view.NewClient(newCoreClient())
}

func newEditClient() edit.Client {
	client, err := edit.NewClient(newCoreClient())
	if err != nil {
		serviceutil.Fatal("failed to initialize authorized client", err)
	}
	return client
}
