package main

import (
	"fmt"
	"text/tabwriter"

	"acms/internal/app"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		dbCfg := s.cfg.Database
		if dir := viper.GetString("migrations-dir"); dir != "" {
			dbCfg.MigrationsDir = dir
		}
		return app.Migrate(cmd.Context(), s.db, dbCfg, s.logger)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		dbCfg := s.cfg.Database
		if dir := viper.GetString("migrations-dir"); dir != "" {
			dbCfg.MigrationsDir = dir
		}
		items, err := app.MigrationRunner(dbCfg, s.logger).Status(cmd.Context(), s.db.SQLDB())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
		for _, it := range items {
			at := "pending"
			if it.AppliedAt != nil {
				at = it.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", it.Version, it.Name, at)
		}
		return w.Flush()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default skill categories and skills",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		return app.Seed(cmd.Context(), s.db, s.logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().String("migrations-dir", "", "read migrations from this directory instead of the embedded set")
	viper.BindPFlag("migrations-dir", migrateCmd.PersistentFlags().Lookup("migrations-dir"))
}
