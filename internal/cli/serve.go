package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphplane/internal/server"
)

// serveCommand runs the HTTP facade until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the geometry engine over HTTP",
		Long: `Serve the geometry engine over HTTP.

Every request carries the scene it operates on; the server keeps no state.
Address, timeouts and body limit come from the [server] config section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			w := cmd.ErrOrStderr()
			printInfo(w, "serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			printNextStep(w, "Check it with", "curl http://localhost"+portOf(cfg.Server.Addr)+"/health")

			srv := server.New(cfg, loggerFromContext(cmd.Context()))
			if err := srv.ListenAndServe(cmd.Context()); err != nil {
				return err
			}
			printSuccess(w, "server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// portOf returns the ":port" suffix of a listen address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ""
}
