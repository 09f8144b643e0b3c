package commands

import (
	"github.com/spf13/cobra"

	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
	_ "github.com/helpmatch/helpmatch/internal/shared/infrastructure/database/postgres"
	_ "github.com/helpmatch/helpmatch/internal/shared/infrastructure/database/sqlite"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		conn, err := database.NewConnection(ctx, database.Config{
			Driver:     database.Driver(cfg.DatabaseDriver),
			URL:        cfg.DatabaseURL,
			SQLitePath: cfg.SQLitePath,
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := migrations.Run(ctx, conn); err != nil {
			return err
		}

		logger.Info("migrations applied", "driver", conn.Driver())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
