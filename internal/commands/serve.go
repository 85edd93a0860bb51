package commands

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/Navdevl/chris-cred-reader/internal/api"
	"github.com/Navdevl/chris-cred-reader/internal/logger"
)

func newServeCommand() *cobra.Command {
	var (
		addr     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve statement conversion over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logLevel)
			app := fiber.New(fiber.Config{
				BodyLimit: 32 * 1024 * 1024, // statements are small; cap uploads anyway
			})

			h := &api.Handler{Log: log}
			h.Register(app)

			log.Info().Str("addr", addr).Msg("listening")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}
