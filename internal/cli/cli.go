package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphplane/pkg/buildinfo"
	"github.com/matzehuels/graphplane/pkg/config"
	"github.com/matzehuels/graphplane/pkg/engine"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "graphplane"

// stdio is the path argument that selects stdin or stdout.
const stdio = "-"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Graphplane computes geometry for interactive coordinate planes",
		Long:         `Graphplane resolves anchored points, snaps pointers onto lines, curves and function graphs, and fills areas between boundaries on a 2D coordinate plane.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graphplane/config.toml)")

	root.AddCommand(c.transformCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.snapCommand())
	root.AddCommand(c.dragCommand())
	root.AddCommand(c.boundaryCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// openScene reads the scene at path ("-" for stdin) and builds a runner over it.
func (c *CLI) openScene(cmd *cobra.Command, path string) (*engine.Runner, error) {
	var (
		doc *scene.Document
		err error
	)
	if path == stdio {
		doc, err = scene.Read(cmd.InOrStdin())
	} else {
		doc, err = scene.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(cmd.Context())
	if doc.Repaired {
		logger.Warn("scene axes were invalid and have been reset", "path", path)
	}
	return engine.NewRunner(doc, nil, c.cfg, logger), nil
}

// saveScene writes the runner's scene to path ("-" for stdout). An empty
// path writes nothing.
func saveScene(cmd *cobra.Command, run *engine.Runner, path string) error {
	switch path {
	case "":
		return nil
	case stdio:
		return scene.Write(run.Doc, cmd.OutOrStdout())
	}
	if err := scene.WriteFile(run.Doc, path); err != nil {
		return err
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePoint parses "x,y" into a point.
func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	p := geom.Pt(x, y)
	if !p.IsFinite() {
		return geom.Point{}, fmt.Errorf("invalid point %q: not finite", s)
	}
	return p, nil
}
