package main

import (
	"log"

	intconfig "marketplace/internal/config"
	intdb "marketplace/internal/db"
	"marketplace/internal/db/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := intconfig.LoadEnv()
		if err != nil {
			return err
		}
		db, err := intconfig.ConnectDB(env.DB)
		if err != nil {
			return err
		}
		defer intconfig.CloseDB()

		n, err := intdb.Migrate(cmd.Context(), db, migrations.FS)
		if err != nil {
			return err
		}
		log.Printf("[DB] applied %d migration(s)", n)
		return nil
	},
}
