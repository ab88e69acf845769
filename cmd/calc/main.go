package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AuruTus/formal-methods/calc"
	"github.com/AuruTus/formal-methods/internal/config"
	"github.com/AuruTus/formal-methods/internal/repl"
)

const appName = "calc"

// errFailed marks a run whose expression errors were already printed.
var errFailed = errors.New("one or more expressions failed")

type options struct {
	configFile string
	logLevel   string
	onError    string
	noColor    bool
}

func main() {
	if err := execute(newRootCmd(), os.Args[1:]); err != nil {
		if calc.KindOf(err) == 0 && !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Integer arithmetic calculator",
		Long: `calc evaluates integer arithmetic expressions: + - * /, parentheses and
unary minus. Division truncates toward zero.

With no subcommand calc starts an interactive prompt when stdin is a
terminal, and otherwise reads one expression per line from stdin and
prints one result per line.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if isTerminal(cmd.InOrStdin()) && liner.TerminalSupported() {
				return runREPL(cmd, cfg, logger)
			}
			return repl.New(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr()).Run(cmd.InOrStdin())
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "configuration file (.toml, .yaml or .yml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.onError, "on-error", "", `what to do when an expression fails ("skip" or "abort")`)
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newEvalCmd(opts),
		newTokensCmd(),
		newTreeCmd(),
		newTacCmd(),
		newVersionCmd(),
	)
	return root
}

// execute runs root with args. Expressions may start with a unary minus,
// which the flag parser would otherwise read as a shorthand flag, so a "--"
// is inserted in front of the first such argument. Flags must therefore come
// before the expressions.
func execute(root *cobra.Command, args []string) error {
	root.SetArgs(expressionArgs(root, args))
	return root.Execute()
}

func expressionArgs(root *cobra.Command, args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return args
		case strings.HasPrefix(a, "--") && isLetter(a, 2):
			if !strings.Contains(a, "=") && takesValue(root, a[2:]) {
				i++
			}
		case strings.HasPrefix(a, "-") && isLetter(a, 1):
		case strings.HasPrefix(a, "-"):
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}

func isLetter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	c := s[i]
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// takesValue reports whether the long flag name consumes the next argument.
func takesValue(root *cobra.Command, name string) bool {
	f := root.PersistentFlags().Lookup(name)
	if f == nil {
		for _, sub := range root.Commands() {
			if f = sub.Flags().Lookup(name); f != nil {
				break
			}
		}
	}
	return f != nil && f.NoOptDefVal == ""
}

// setup loads the config file and applies flag overrides.
func setup(cmd *cobra.Command, opts *options) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("on-error") {
		cfg.OnError = opts.onError
	}
	if opts.noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: !cfg.Color}).
		With().Timestamp().Str("service", appName).Logger().
		Level(level)
	return cfg, logger, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// -----------------------------------------------------------------------------
// eval
// -----------------------------------------------------------------------------

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [--] EXPR...",
		Short: "Evaluate each argument and print one result per line",
		Example: `  calc eval '1 + 2 * 3'
  calc eval '-(2+3)' '7/-2'
  calc --on-error abort eval -- '-1+1'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			r := repl.New(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
			anyFailed := false
			for _, expr := range args {
				failed, err := r.Handle(expr)
				if err != nil {
					return err
				}
				anyFailed = anyFailed || failed
			}
			if anyFailed {
				return errFailed
			}
			return nil
		},
	}
}

// -----------------------------------------------------------------------------
// tokens / tree / tac
// -----------------------------------------------------------------------------

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens EXPR",
		Short: "Print the tokens of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toks, err := calc.Tokenize(args[0])
			if err != nil {
				return printed(cmd, err)
			}
			out := cmd.OutOrStdout()
			for _, t := range toks {
				fmt.Fprintf(out, "%-7s %s\n", t.Type, t)
			}
			return nil
		},
	}
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree EXPR",
		Short: "Print the expression tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseArg(args[0])
			if err != nil {
				return printed(cmd, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tree)
			fmt.Fprint(out, calc.Dump(tree))
			return nil
		},
	}
}

func newTacCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tac EXPR",
		Short: "Print the three-address code of an expression and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseArg(args[0])
			if err != nil {
				return printed(cmd, err)
			}
			prog := calc.Compile(tree)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, prog)
			v, err := prog.Run()
			if err != nil {
				return printed(cmd, err)
			}
			fmt.Fprintf(out, "; = %d\n", v)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), calc.Version)
		},
	}
}

func parseArg(src string) (calc.Node, error) {
	toks, err := calc.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return calc.Parse(toks)
}

// printed writes a calc error to stderr and returns it; main does not print
// calc errors a second time.
func printed(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), strings.TrimSpace(err.Error()))
	return err
}
