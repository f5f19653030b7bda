package commands

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repsql/repsql/internal/cli/config"
	"github.com/repsql/repsql/internal/connection"
	"github.com/repsql/repsql/internal/testutil"
)

// testContext returns a command context wired to a temp connections file.
func testContext(t *testing.T, cfg *config.Config) context.Context {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{
			ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
			PageSize:        config.DefaultPageSize,
			OutputFormat:    "csv",
		}
	}
	ctx := config.WithConfig(context.Background(), cfg)
	return config.WithLogger(ctx, testutil.NewTestLogger(t))
}

// runCommand executes cmd with args under ctx, returning stdout.
func runCommand(t *testing.T, ctx context.Context, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestConnAddFromFlags(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	out, err := runCommand(t, ctx, NewConnCommand(), "",
		"add", "prod",
		"--url", "https://bip.example.com/report",
		"--username", "svc",
		"--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, `Connection "prod" added`)

	store, err := connection.Open(cfg.ConnectionsFile)
	require.NoError(t, err)
	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, "https://bip.example.com/report", list[0].URL)
}

func TestConnAddNonInteractiveRequiresURL(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	// Stdin is not a terminal here, so there is nothing to prompt on.
	_, err := runCommand(t, ctx, NewConnCommand(), "", "add", "prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url")

	store, err := connection.Open(cfg.ConnectionsFile)
	require.NoError(t, err)
	assert.Empty(t, store.List())
}

func TestConnAddNonInteractiveURLOnly(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	_, err := runCommand(t, ctx, NewConnCommand(), "", "add", "prod", "--url", "https://bip.example.com/report")
	require.NoError(t, err)

	store, err := connection.Open(cfg.ConnectionsFile)
	require.NoError(t, err)
	list := store.List()
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Username)
	assert.Empty(t, list[0].Password)
}

func TestPromptErrMapsUserAbort(t *testing.T) {
	require.NoError(t, promptErr(nil))
	assert.ErrorIs(t, promptErr(huh.ErrUserAborted), errPromptCancelled)
	assert.ErrorContains(t, promptErr(errors.New("tty gone")), "prompt failed")
}

func TestConnAddDuplicate(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	_, err := runCommand(t, ctx, NewConnCommand(), "", "add", "prod", "--url", "https://a", "--username", "u", "--password", "p")
	require.NoError(t, err)

	_, err = runCommand(t, ctx, NewConnCommand(), "", "add", "prod", "--url", "https://b", "--username", "u", "--password", "p")
	require.ErrorIs(t, err, connection.ErrDuplicateName)
}

func TestConnListEmpty(t *testing.T) {
	ctx := testContext(t, nil)
	out, err := runCommand(t, ctx, NewConnCommand(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No connections configured")
}

func TestConnListHidesPasswords(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	_, err := runCommand(t, ctx, NewConnCommand(), "", "add", "prod", "--url", "https://a", "--username", "svc", "--password", "topsecret")
	require.NoError(t, err)

	out, err := runCommand(t, ctx, NewConnCommand(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "prod")
	assert.Contains(t, out, "svc")
	assert.NotContains(t, out, "topsecret")
}

func TestConnUpdate(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	_, err := runCommand(t, ctx, NewConnCommand(), "", "add", "prod", "--url", "https://old", "--username", "u", "--password", "p")
	require.NoError(t, err)

	_, err = runCommand(t, ctx, NewConnCommand(), "", "update", "prod", "--url", "https://new", "--username", "u", "--password", "p")
	require.NoError(t, err)

	store, err := connection.Open(cfg.ConnectionsFile)
	require.NoError(t, err)
	got, err := store.Get("prod")
	require.NoError(t, err)
	assert.Equal(t, "https://new", got.URL)
}

func TestConnUpdatePartialFlagsKeepsExisting(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	_, err := runCommand(t, ctx, NewConnCommand(), "", "add", "prod", "--url", "https://a", "--username", "svc", "--password", "old")
	require.NoError(t, err)

	// Only the password flag is given; without a terminal the other fields
	// fall back to the stored values.
	_, err = runCommand(t, ctx, NewConnCommand(), "", "update", "prod", "--password", "new")
	require.NoError(t, err)

	store, err := connection.Open(cfg.ConnectionsFile)
	require.NoError(t, err)
	got, err := store.Get("prod")
	require.NoError(t, err)
	assert.Equal(t, "https://a", got.URL)
	assert.Equal(t, "svc", got.Username)
	assert.Equal(t, "new", got.Password)
}

func TestConnUpdateNotFound(t *testing.T) {
	ctx := testContext(t, nil)
	_, err := runCommand(t, ctx, NewConnCommand(), "", "update", "ghost", "--url", "https://x", "--username", "u", "--password", "p")
	require.ErrorIs(t, err, connection.ErrNotFound)
}

func TestConnRemoveIdempotent(t *testing.T) {
	ctx := testContext(t, nil)
	out, err := runCommand(t, ctx, NewConnCommand(), "", "remove", "ghost")
	require.NoError(t, err)
	assert.Contains(t, out, `Connection "ghost" removed`)
}

func TestConnShowMasksPassword(t *testing.T) {
	cfg := &config.Config{
		ConnectionsFile: filepath.Join(t.TempDir(), "connections.json"),
		PageSize:        config.DefaultPageSize,
	}
	ctx := testContext(t, cfg)

	_, err := runCommand(t, ctx, NewConnCommand(), "", "add", "prod", "--url", "https://a", "--username", "svc", "--password", "topsecret")
	require.NoError(t, err)

	out, err := runCommand(t, ctx, NewConnCommand(), "", "show", "prod")
	require.NoError(t, err)
	assert.Contains(t, out, "https://a")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "topsecret")
}
