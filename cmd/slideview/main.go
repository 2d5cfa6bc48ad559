package main

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jask/slideview/internal/config"
	"github.com/jask/slideview/internal/logging"
	"github.com/jask/slideview/internal/store"
)

// cli holds flag values and what setup derives from them.
type cli struct {
	configPath   string
	logLevel     string
	logFile      string
	deckPaths    []string
	presentation string

	cfg    config.Config
	log    *log.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "slideview",
		Short: "Terminal slideshow viewer",
		Long: `slideview presents slide decks in the terminal.

Run without arguments to pick a presentation, or open one directly with
--presentation or "slideview show <id>". Decks are YAML, JSON or TOML files
read from the configured deck directories; a sample deck is built in.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: c.teardown,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runViewer(cmd.Context(), c.presentation)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $SLIDEVIEW_CONFIG or ~/.config/slideview/config.toml)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&c.logFile, "log-file", "", "log file, empty to discard")
	pf.StringSliceVar(&c.deckPaths, "decks", nil, "extra deck files or directories")
	root.Flags().StringVarP(&c.presentation, "presentation", "p", "", "open this presentation id directly")

	root.AddCommand(
		c.showCmd(),
		c.listCmd(),
		c.renderCmd(),
		c.historyCmd(),
		c.configCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}
	pf := cmd.Root().PersistentFlags()
	if pf.Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if pf.Changed("log-file") {
		cfg.Log.File = c.logFile
	}
	if pf.Changed("decks") {
		cfg.Decks.Paths = append(cfg.Decks.Paths, c.deckPaths...)
	}
	c.cfg = cfg

	logger, closer, err := logging.Configure(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	c.log, c.closer = logger, closer
	c.log.Debug("config loaded", "command", cmd.Name(), "decks", cfg.Decks.Paths)
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) {
	if c.closer != nil {
		_ = c.closer.Close()
	}
}

// loadStore reads the built-in and configured decks. Broken deck files are
// logged and skipped.
func (c *cli) loadStore() (*store.Store, error) {
	st, err := store.Load(c.cfg.Decks.Paths...)
	if st == nil {
		return nil, err
	}
	if err != nil {
		c.log.Warn("some decks were skipped", "err", err)
	}
	return st, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
