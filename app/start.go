package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/orbitdesk/orbitdesk/internal/daemon"
	"github.com/orbitdesk/orbitdesk/internal/web"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:       "start <auth|admin|org>",
	Short:     "Start one of the orbitdesk servers",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(web.KindAuth), string(web.KindAdmin), string(web.KindOrg)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := web.ParseKind(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		d, err := daemon.New(ctx, cfg, kind)
		if err != nil {
			// running with a partial permission set is unsafe
			log.Fatal().Err(err).Str("process", string(kind)).Msg("boot failed")
		}

		return d.Start(ctx)
	},
}
