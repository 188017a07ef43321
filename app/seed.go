package app

import (
	"github.com/spf13/cobra"

	"github.com/orbitdesk/orbitdesk/internal/daemon"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate the database and reconcile the RBAC manifest, then exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := daemon.OpenDB(cfg)
		if err != nil {
			return err
		}

		m := rbac.DefaultManifest()

		res, err := daemon.Seed(cmd.Context(), db, &m)
		if err != nil {
			return err
		}

		c, store, err := daemon.ConnectCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if store != nil {
			defer func() { _ = store.Close() }()
		}

		daemon.InvalidateRoles(cmd.Context(), c, res.SystemRoleIDs)

		return nil
	},
}
