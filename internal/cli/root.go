package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/peacecards/internal/config"
	"github.com/mithrel/peacecards/internal/wire"
)

type ctxKey string

const (
	appKey   ctxKey = "app"
	viperKey ctxKey = "viper"
)

// skipApp marks commands that only need configuration, not a store.
const skipApp = "peacecards/skip-app"

// Execute builds the root command and runs it until completion or an
// interrupt signal.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	var remote string

	cmd := &cobra.Command{
		Use:           "peacecards",
		Short:         "Peacecards: relationship card decks for the terminal and the web",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadViper(cmd.Context(), cfgPath, remote)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), viperKey, v)
			if cmd.Annotations[skipApp] == "" {
				app, err := wire.BuildApp(ctx, v)
				if err != nil {
					return err
				}
				ctx = context.WithValue(ctx, appKey, app)
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")
	cmd.PersistentFlags().StringVar(&remote, "remote", "", "browse a peacecards server at this URL instead of the local store")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDeckCmd())
	cmd.AddCommand(newCardCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func loadViper(ctx context.Context, cfgPath, remote string) (*viper.Viper, error) {
	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	}
	if err := config.Load(ctx, v); err != nil {
		return nil, err
	}
	if remote != "" {
		v.Set("remote.url", remote)
	}
	return v, nil
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getViper(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(viperKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}

// configPath returns --config or the default config location.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}
