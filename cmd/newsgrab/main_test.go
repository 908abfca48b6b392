package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	main "newsgrab/cmd/newsgrab"
)

func TestMain_Run(t *testing.T) {
	newMain := func(t *testing.T) *main.Main {
		t.Helper()
		dir := t.TempDir()
		t.Setenv("NEWSGRAB_DB", filepath.Join(dir, "test.db"))
		m := main.NewMain()
		m.ConfigPath = filepath.Join(dir, "missing-config.yaml")
		return m
	}

	t.Run("count works against a fresh database", func(t *testing.T) {
		m := newMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"count"}, stdout, stderr)
		require.NoError(t, err)
		assert.Equal(t, "0\n", stdout.String())
	})

	t.Run("list reports an empty store", func(t *testing.T) {
		m := newMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"list"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No articles found")
	})

	t.Run("no arguments shows help and errors", func(t *testing.T) {
		m := newMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, stderr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help does not error", func(t *testing.T) {
		m := newMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
		require.NoError(t, err)
	})

	t.Run("unknown command errors", func(t *testing.T) {
		m := newMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"bogus"}, stdout, stderr)
		require.Error(t, err)
	})
}
