package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mithrel/peacecards/internal/config"
	"github.com/mithrel/peacecards/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve decks and cards over the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if app.Remote != nil {
				return errors.New("serve needs a local store; unset remote.url or --remote")
			}
			if listen != "" {
				app.V.Set("http_addr", listen)
			}
			if err := config.CheckConfigValidity(app.V); err != nil {
				return err
			}
			srv := server.New(app.V, app.Store, app.Log)
			return srv.ListenAndServe(cmd.Context(), server.ServeOptions{
				Addr:        app.V.GetString("http_addr"),
				ACMEDomains: app.Cfg.ACMEDomains,
				ACMEEmail:   app.Cfg.ACMEEmail,
				DataDir:     app.Cfg.DataDir,
			})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (override config http_addr)")
	return cmd
}
