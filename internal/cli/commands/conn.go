package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/repsql/repsql/internal/connection"
)

// ConnOptions holds flag values shared by the conn subcommands.
type ConnOptions struct {
	URL      string
	Username string
	Password string
}

// NewConnCommand creates the conn command and its subcommands.
func NewConnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conn",
		Aliases: []string{"connection", "connections"},
		Short:   "Manage report endpoint connections",
		Long: `Manage the named connections repsql queries against.

Connections are stored as a JSON array in the connections file
(default ~/.repsql/connections.json). Credentials are kept in plain text;
restrict the file's permissions accordingly.`,
	}

	cmd.AddCommand(newConnAddCommand())
	cmd.AddCommand(newConnListCommand())
	cmd.AddCommand(newConnUpdateCommand())
	cmd.AddCommand(newConnRemoveCommand())
	cmd.AddCommand(newConnShowCommand())

	return cmd
}

func newConnAddCommand() *cobra.Command {
	opts := &ConnOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new connection",
		Example: `  # Fully from flags
  repsql conn add prod --url https://bip.example.com/report --username svc --password s3cret

  # Prompt for anything omitted
  repsql conn add prod`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnAdd(cmd, args[0], opts)
		},
	}

	addConnFlags(cmd, opts)
	return cmd
}

func addConnFlags(cmd *cobra.Command, opts *ConnOptions) {
	cmd.Flags().StringVar(&opts.URL, "url", "", "Report endpoint URL")
	cmd.Flags().StringVar(&opts.Username, "username", "", "Basic auth username")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Basic auth password")
}

// fillConnection completes missing fields, starting from defaults. Flags win;
// whatever is still unset is asked for interactively. Cancelling the form
// aborts the whole mutation.
func fillConnection(cmd *cobra.Command, opts *ConnOptions, defaults connection.Connection) (connection.Connection, error) {
	conn := defaults

	if opts.URL != "" {
		conn.URL = opts.URL
	}
	if opts.Username != "" {
		conn.Username = opts.Username
	}
	if opts.Password != "" {
		conn.Password = opts.Password
	}

	if opts.URL != "" && opts.Username != "" && opts.Password != "" {
		return conn, nil
	}

	if f, ok := cmd.InOrStdin().(*os.File); !ok || !isTerminal(f) {
		// Non-interactive invocation: the URL is the only field we refuse
		// to leave empty.
		if conn.URL == "" {
			return conn, fmt.Errorf("no terminal to prompt on, set --url")
		}
		return conn, nil
	}

	form := newConnForm(&conn)
	if err := promptErr(form.Run()); err != nil {
		return conn, err
	}

	return conn, nil
}

func newConnForm(conn *connection.Connection) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Endpoint URL").
			Validate(required("Endpoint URL")).
			Value(&conn.URL),
		huh.NewInput().
			Title("Username").
			Value(&conn.Username),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&conn.Password),
	))
}

func runConnAdd(cmd *cobra.Command, name string, opts *ConnOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	conn, err := fillConnection(cmd, opts, connection.Connection{Name: name})
	if err != nil {
		if err == errPromptCancelled {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
		return err
	}

	if err := cmdCtx.Store.Add(conn); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connection %q added\n", name)
	return nil
}

func newConnListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			list := cmdCtx.Store.List()
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No connections configured")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "URL", "Username"})
			for _, conn := range list {
				// Passwords are never printed.
				t.AppendRow(table.Row{conn.Name, conn.URL, conn.Username})
			}
			t.Render()
			return nil
		},
	}
}

func newConnUpdateCommand() *cobra.Command {
	opts := &ConnOptions{}

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update an existing connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnUpdate(cmd, args[0], opts)
		},
	}

	addConnFlags(cmd, opts)
	return cmd
}

func runConnUpdate(cmd *cobra.Command, name string, opts *ConnOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	existing, err := cmdCtx.Store.Get(name)
	if err != nil {
		return err
	}

	conn, err := fillConnection(cmd, opts, existing)
	if err != nil {
		if err == errPromptCancelled {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
		return err
	}

	if err := cmdCtx.Store.Update(name, conn); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connection %q updated\n", name)
	return nil
}

func newConnRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a connection",
		Long:    `Remove a connection. Removing a name that does not exist is a no-op.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if err := cmdCtx.Store.Delete(args[0]); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connection %q removed\n", args[0])
			return nil
		},
	}
}

func newConnShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			conn, err := cmdCtx.Store.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Name:     %s\n", conn.Name)
			_, _ = fmt.Fprintf(out, "URL:      %s\n", conn.URL)
			_, _ = fmt.Fprintf(out, "Username: %s\n", conn.Username)
			_, _ = fmt.Fprintf(out, "Password: %s\n", maskPassword(conn.Password))
			return nil
		},
	}
}

func maskPassword(pw string) string {
	if pw == "" {
		return "(none)"
	}
	return "********"
}
