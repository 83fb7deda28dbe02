package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/dreamctl/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dream journal over HTTP",
	Long: `Start the JSON API. Requests act as the user named in the X-User-ID header,
or as the configured user when the header is absent.`,
	Example: `  dreamctl serve
  dreamctl serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appConfig.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(api.Config{
			Addr:         addr,
			DefaultUser:  appConfig.User,
			WriteTimeout: appConfig.Completion.Timeout + appConfig.Completion.Timeout/2,
		}, svc, logger)
		if err := srv.Run(ctx); err != nil {
			return failure(err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
