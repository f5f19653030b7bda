package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/repsql/repsql/internal/cli/config"
	"github.com/repsql/repsql/internal/connection"
	"github.com/repsql/repsql/internal/report"
)

// CommandContext bundles what every command needs: config, logger, the
// connection store, and a report client.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  *connection.Store
	Client *report.Client
}

// NewCommandContext builds the command context, opening the connection store
// from the configured path.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	store, err := connection.Open(cfg.ConnectionsFile)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Store:  store,
		Client: report.NewClient(report.WithLogger(logger)),
	}, nil
}

// resolveConnection picks the connection to use: the --connection flag (or
// config default) when set, otherwise the store's single entry.
func (c *CommandContext) resolveConnection() (connection.Connection, error) {
	if c.Cfg.Connection != "" {
		return c.Store.Get(c.Cfg.Connection)
	}

	list := c.Store.List()
	switch len(list) {
	case 0:
		return connection.Connection{}, fmt.Errorf("no connections configured (run 'repsql conn add' first)")
	case 1:
		return list[0], nil
	default:
		return connection.Connection{}, fmt.Errorf("multiple connections configured, pick one with --connection")
	}
}

// errPromptCancelled aborts a prompt sequence without treating it as failure.
var errPromptCancelled = errors.New("cancelled")

// promptErr maps a form error to the command's prompt semantics: a user
// abort (Esc/Ctrl-C) cancels the whole mutation.
func promptErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, huh.ErrUserAborted) {
		return errPromptCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// required validates that a prompted field is not left empty.
func required(name string) func(in string) error {
	return func(in string) error {
		if len(in) == 0 {
			return fmt.Errorf("%v must be set", name)
		}
		return nil
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
