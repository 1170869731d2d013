package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/buildinfo"
	"github.com/dmitrijs2005/gophvault/internal/server"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Settings are read by config.LoadConfig from os.Args, so cobra only routes
// subcommands and leaves flag parsing to it.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gophvault-server",
		Short: "Backend for the gophvault credential vault",
		Long: `gophvault-server stores sealed credential records. Encryption happens on
the client; the server only ever sees ciphertext, nonces and bcrypt hashes.

Flags: -a addr, -m postgres|dynamodb|memory, -d dsn, -s secret, -t minutes,
-k bcrypt cost, -n table, -g region, -e endpoint, -c config.json`,
		SilenceUsage:       true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		Args:               cobra.ArbitraryArgs,
		RunE:               runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:                "serve",
		Short:              "Apply migrations and serve gRPC (default)",
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		Args:               cobra.ArbitraryArgs,
		RunE:               runServe,
	})

	root.AddCommand(&cobra.Command{
		Use:                "migrate",
		Short:              "Apply storage migrations and exit",
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := server.NewApp(cmd.Context(), config.LoadConfig())
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Migrate(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	})

	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
