package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/slideview/internal/config"
	"github.com/jask/slideview/internal/database"
	"github.com/jask/slideview/internal/database/repository"
	"github.com/jask/slideview/internal/deck"
	"github.com/jask/slideview/internal/render"
	"github.com/jask/slideview/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5c2e7")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#45475a"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// ---------------------------------------------------------------------------
// list
// ---------------------------------------------------------------------------

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known presentations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.loadStore()
			if err != nil {
				return err
			}
			t := newTable("ID", "TITLE", "AUTHOR", "SLIDES")
			for _, p := range st.List() {
				t.Row(p.ID, p.Title, p.Author, strconv.Itoa(p.Len()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// render
// ---------------------------------------------------------------------------

func (c *cli) renderCmd() *cobra.Command {
	var (
		slide               string
		width, detail, step int
	)
	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Print one slide without starting the viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.loadStore()
			if err != nil {
				return err
			}
			p, err := st.Lookup(args[0])
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					if s := st.Suggest(args[0], 3); len(s) > 0 {
						return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
					}
				}
				return err
			}
			idx, err := slideIndex(p, slide)
			if err != nil {
				return err
			}
			s, _ := p.At(idx)
			frame := render.Frame{Width: width, Step: step, Detail: detail - 1}
			fmt.Fprintln(cmd.OutOrStdout(), c.dispatcher().Render(s, frame))
			return nil
		},
	}
	cmd.Flags().StringVar(&slide, "slide", "1", "slide number starting at 1, or slide id")
	cmd.Flags().IntVar(&width, "width", 80, "render width in columns")
	cmd.Flags().IntVar(&detail, "detail", 0, "table row whose details to show, starting at 1")
	cmd.Flags().IntVar(&step, "step", 0, "carousel position or diagram step")
	return cmd
}

// slideIndex resolves a 1-based slide number or a slide id.
func slideIndex(p *deck.Presentation, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if _, ok := p.At(n - 1); !ok {
			return 0, fmt.Errorf("slide %d out of range (1-%d)", n, p.Len())
		}
		return n - 1, nil
	}
	if i := p.IndexOf(ref); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("no slide %q in %s", ref, p.ID)
}

// ---------------------------------------------------------------------------
// history
// ---------------------------------------------------------------------------

func (c *cli) historyCmd() *cobra.Command {
	var (
		limit   int
		session string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent viewing sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled.")
				return nil
			}
			db, err := database.OpenMigrated(c.cfg.History.Path)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			defer db.Close()

			repo := repository.NewHistoryRepo(db)
			if session != "" {
				return printSession(cmd, repo, session)
			}
			sessions, err := repo.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No viewing sessions yet.")
				return nil
			}
			t := newTable("SESSION", "STARTED", "PRESENTATION", "VIEWS", "LAST SLIDE", "DURATION")
			for _, s := range sessions {
				t.Row(
					s.ID,
					s.StartedAt.Local().Format("2006-01-02 15:04"),
					s.PresentationID,
					strconv.Itoa(s.Views),
					strconv.Itoa(s.LastIndex+1),
					duration(s),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of sessions to show")
	cmd.Flags().StringVar(&session, "session", "", "list the slides shown in one session")
	return cmd
}

func printSession(cmd *cobra.Command, repo *repository.HistoryRepo, id string) error {
	s, err := repo.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if s == nil {
		return fmt.Errorf("no session %q", id)
	}
	views, err := repo.Views(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("list views: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s  %s\n", s.PresentationID, s.StartedAt.Local().Format("2006-01-02 15:04"), duration(*s))
	t := newTable("AT", "SLIDE", "ID")
	for _, v := range views {
		t.Row(v.ViewedAt.Local().Format("15:04:05"), strconv.Itoa(v.Index+1), v.SlideID)
	}
	fmt.Fprintln(out, t.String())
	return nil
}

func duration(s repository.Session) string {
	if s.EndedAt == nil {
		return "open"
	}
	return s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.configPath
			if path == "" {
				path = config.Path()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(c.cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
