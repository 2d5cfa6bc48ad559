package main

import (
	"context"
	"fmt"
	"net"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/slideview/internal/database"
	"github.com/jask/slideview/internal/database/repository"
	"github.com/jask/slideview/internal/keys"
	"github.com/jask/slideview/internal/remote"
	"github.com/jask/slideview/internal/render"
	"github.com/jask/slideview/internal/tui"
)

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Open a presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runViewer(cmd.Context(), args[0])
		},
	}
}

func (c *cli) dispatcher() *render.Dispatcher {
	return render.NewDispatcher(render.WithMarkdown(render.NewMarkdown(c.cfg.UI.MarkdownStyle)))
}

// runViewer starts the TUI, optionally opening id directly.
func (c *cli) runViewer(ctx context.Context, id string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, err := c.loadStore()
	if err != nil {
		return err
	}
	if id == "" {
		id = c.cfg.UI.StartPresentation
	}

	opts := tui.Options{
		Store:           st,
		Dispatcher:      c.dispatcher(),
		Keys:            keys.NewRegistry(keys.ApplyOverrides(keys.DefaultBindings(), c.cfg.Keys)),
		Logger:          c.log,
		Start:           id,
		Transitions:     c.cfg.UI.Transitions,
		AllowFullscreen: c.cfg.UI.AllowFullscreen,
		Mouse:           c.cfg.UI.Mouse,
	}

	if c.cfg.History.Enabled {
		db, err := database.OpenMigrated(c.cfg.History.Path)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		defer db.Close()
		opts.History = repository.NewHistoryRepo(db)
	}

	var (
		p   *tea.Program
		srv *remote.Server
		ln  net.Listener
	)
	if addr := c.cfg.Remote.Addr; addr != "" {
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("remote listen: %w", err)
		}
		srv = remote.New(func(cmd remote.Command) { p.Send(cmd) }, c.log.With("component", "remote"))
		defer srv.Close()
		opts.Remote = srv
	}

	app := tui.New(ctx, opts)
	defer app.Close()

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.cfg.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p = tea.NewProgram(app, progOpts...)

	if srv != nil {
		go func() {
			if err := srv.Serve(ctx, ln); err != nil {
				c.log.Error("remote server stopped", "err", err)
			}
		}()
	}

	c.log.Info("viewer started", "presentation", id, "decks", st.Len())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
