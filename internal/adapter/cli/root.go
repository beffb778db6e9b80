package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sbeeredd04/promen/internal/diff"
	"github.com/sbeeredd04/promen/internal/domain"
	"github.com/sbeeredd04/promen/internal/store"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// Transformer runs one transform through the message channel.
type Transformer interface {
	Transform(ctx context.Context, action domain.Action, text string) (string, error)
}

// Formatter derives the paired renderings from raw model text.
type Formatter interface {
	Format(raw string) domain.Fragment
}

// KeyStore manages the stored provider credential.
type KeyStore interface {
	UpdateKey(ctx context.Context, key string) error
	ClearKey(ctx context.Context) error
	Key(ctx context.Context) (string, error)
}

// HistoryLister reads back recorded suggestions.
type HistoryLister interface {
	ListSuggestions(ctx context.Context, limit int) ([]store.SuggestionRecord, error)
}

// ServeFunc runs the bridge server until the context is cancelled.
type ServeFunc func(ctx context.Context, listen string) error

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	InReader  io.Reader
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Transformer   Transformer
	Formatter     Formatter
	Keys          KeyStore
	History       HistoryLister
	Serve         ServeFunc
	Args          Arguments
	DefaultListen string
	Version       string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "promen",
		Short: "Prompt assistant CLI",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	inReader := deps.Args.InReader
	if inReader == nil {
		inReader = os.Stdin
	}
	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetIn(inReader)
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(transformCommand(deps.Transformer, deps.Formatter, inReader))
	root.AddCommand(keyCommand(deps.Keys, inReader))
	root.AddCommand(historyCommand(deps.History))
	root.AddCommand(serveCommand(deps.Serve, deps.DefaultListen))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func transformCommand(transformer Transformer, formatter Formatter, in io.Reader) *cobra.Command {
	var action string
	var asHTML bool
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "transform [text]",
		Short: "Rephrase or enhance a prompt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInputText(args, in)
			if err != nil {
				return err
			}

			parsed, err := domain.ParseAction(action)
			if err != nil {
				return err
			}

			result, err := transformer.Transform(cmd.Context(), parsed, text)
			if err != nil {
				return err
			}

			fragment := formatter.Format(result)

			if showDiff {
				changes := diff.Compare(text, fragment.PlainText)
				summary := diff.Summarize(changes)
				fmt.Fprintln(cmd.OutOrStdout(), diff.Render(changes))
				fmt.Fprintf(cmd.ErrOrStderr(), "+%d -%d characters\n", summary.Inserted, summary.Deleted)
				return nil
			}

			if asHTML {
				fmt.Fprintln(cmd.OutOrStdout(), fragment.HTML)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), fragment.PlainText)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&action, "action", "a", "rephrase", "Transform action: rephrase or enhance")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the HTML rendering instead of plain text")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show a word diff between input and suggestion")

	return cmd
}

func keyCommand(keys KeyStore, in io.Reader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the provider API key",
	}

	setCmd := &cobra.Command{
		Use:   "set [key]",
		Short: "Store the provider API key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) > 0 {
				key = args[0]
			} else {
				read, err := readSecret(cmd, in)
				if err != nil {
					return err
				}
				key = read
			}

			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("no key provided")
			}

			if err := keys.UpdateKey(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key updated")
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored API key (redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keys.Key(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), redactKey(key))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keys.ClearKey(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
			return nil
		},
	}

	cmd.AddCommand(setCmd, showCmd, clearCmd)
	return cmd
}

func historyCommand(history HistoryLister) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == nil {
				return fmt.Errorf("history store not configured")
			}

			records, err := history.ListSuggestions(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no suggestions recorded")
				return nil
			}

			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n",
					rec.ID,
					rec.CreatedAt.Format("2006-01-02 15:04"),
					rec.Action,
					rec.Status,
					firstLine(rec.PlainText))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of suggestions to list")
	return cmd
}

func serveCommand(serve ServeFunc, defaultListen string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local bridge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serve == nil {
				return fmt.Errorf("server not configured")
			}
			return serve(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", defaultListen, "Address to listen on")
	return cmd
}

// readInputText takes the transform text from the argument or stdin.
func readInputText(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text provided; pass it as an argument or on stdin")
	}
	return text, nil
}

// readSecret prompts on a TTY without echo, otherwise reads a line.
func readSecret(cmd *cobra.Command, in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return string(secret), nil
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read key: %w", err)
	}
	return line, nil
}

func redactKey(key string) string {
	if len(key) <= 4 {
		return "[set]"
	}
	return "..." + key[len(key)-4:]
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 60 {
		text = text[:57] + "..."
	}
	return text
}
