package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/jask/slideview/internal/config"
	"github.com/jask/slideview/internal/database"
	"github.com/jask/slideview/internal/database/repository"
	"github.com/jask/slideview/internal/store"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// isolate points HOME and the config file at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SLIDEVIEW_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("SLIDEVIEW_HISTORY_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("SLIDEVIEW_UI_MARKDOWN_STYLE", "notty")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-file", ""))
	err := root.Execute()
	return out.String(), err
}

func TestListShowsSeedDeck(t *testing.T) {
	isolate(t)
	out, err := execute(t, "list")
	require.NoError(t, err)
	require.Contains(t, out, store.SeedID)
	require.Contains(t, out, "16")
}

func TestListIncludesExtraDecks(t *testing.T) {
	dir := isolate(t)
	deckDir := filepath.Join(dir, "decks")
	require.NoError(t, os.MkdirAll(deckDir, 0o755))
	doc := `
id = "extra"
title = "Extra deck"

[[slides]]
id = "one"
type = "quote"
[slides.content]
quote = "Hello"
author = "Someone"
`
	require.NoError(t, os.WriteFile(filepath.Join(deckDir, "extra.toml"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(deckDir, "broken.yaml"), []byte("slides: ["), 0o644))

	out, err := execute(t, "list", "--decks", deckDir)
	require.NoError(t, err)
	require.Contains(t, out, "extra")
	require.Contains(t, out, "Extra deck")
	require.Contains(t, out, store.SeedID)
}

func TestRenderSlide(t *testing.T) {
	isolate(t)
	out, err := execute(t, "render", store.SeedID, "--slide", "4", "--width", "90")
	require.NoError(t, err)
	require.Contains(t, out, "Objectifs du projet")

	byID, err := execute(t, "render", store.SeedID, "--slide", "slide-4", "--width", "90")
	require.NoError(t, err)
	require.Equal(t, out, byID)
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	_, err := execute(t, "render", "pfa-simulation", "--slide", "1")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Contains(t, err.Error(), store.SeedID)

	_, err = execute(t, "render", store.SeedID, "--slide", "17")
	require.ErrorContains(t, err, "out of range")

	_, err = execute(t, "render", store.SeedID, "--slide", "slide-99")
	require.ErrorContains(t, err, `no slide "slide-99"`)
}

func TestHistoryCommand(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "No viewing sessions yet.")

	db, err := database.OpenMigrated(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	repo := repository.NewHistoryRepo(db)
	ctx := context.Background()
	s, err := repo.Start(ctx, store.SeedID)
	require.NoError(t, err)
	require.NoError(t, repo.RecordView(ctx, s.ID, 2, "slide-3"))
	require.NoError(t, db.Close())

	out, err = execute(t, "history", "--limit", "5")
	require.NoError(t, err)
	require.Contains(t, out, store.SeedID)
	require.Contains(t, out, "open")
	require.Contains(t, out, s.ID)

	out, err = execute(t, "history", "--session", s.ID)
	require.NoError(t, err)
	require.Contains(t, out, "slide-3")

	_, err = execute(t, "history", "--session", "missing")
	require.ErrorContains(t, err, `no session "missing"`)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "config", "init", "--log-level", "debug")
	require.NoError(t, err)
	path := filepath.Join(dir, "config.toml")
	require.True(t, strings.Contains(out, path))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)

	_, err = execute(t, "config", "init")
	require.ErrorContains(t, err, "already exists")
	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestBrokenConfigFails(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[ui\n"), 0o644))
	_, err := execute(t, "list")
	require.Error(t, err)
}
