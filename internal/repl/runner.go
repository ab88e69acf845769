// Package repl drives the calculator one line at a time: every non-blank
// line is tokenized, parsed and evaluated on its own, and the result (or the
// failure) is printed before the next line is read. Nothing carries over
// between lines except the runner's settings.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AuruTus/formal-methods/calc"
	"github.com/AuruTus/formal-methods/internal/config"
)

// Runner evaluates lines and prints their results.
type Runner struct {
	cfg      *config.Config
	log      zerolog.Logger
	out      io.Writer
	errOut   io.Writer
	id       string
	showTree bool

	valueStyle lipgloss.Style
	errorStyle lipgloss.Style
	treeStyle  lipgloss.Style
}

// New creates a runner writing results to out and failures to errOut.
func New(cfg *config.Config, log zerolog.Logger, out, errOut io.Writer) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	id := uuid.NewString()
	r := &Runner{
		cfg:      cfg,
		log:      log.With().Str("session", id).Logger(),
		out:      out,
		errOut:   errOut,
		id:       id,
		showTree: cfg.ShowTree,
	}
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)
	r.valueStyle = outR.NewStyle()
	r.treeStyle = outR.NewStyle()
	r.errorStyle = errR.NewStyle()
	if cfg.Color {
		r.valueStyle = r.valueStyle.Foreground(lipgloss.Color("12")).Bold(true)
		r.treeStyle = r.treeStyle.Foreground(lipgloss.Color("8"))
		r.errorStyle = r.errorStyle.Foreground(lipgloss.Color("9"))
	}
	return r
}

// ID is the session id attached to every log event of this runner.
func (r *Runner) ID() string { return r.id }

// ShowTree reports whether Handle prints the expression tree.
func (r *Runner) ShowTree() bool { return r.showTree }

// SetShowTree toggles printing of the expression tree.
func (r *Runner) SetShowTree(on bool) { r.showTree = on }

// Line evaluates one line. Blank lines report ok=false and no error.
func (r *Runner) Line(text string) (value int64, ok bool, err error) {
	value, _, ok, err = r.eval(text)
	return value, ok, err
}

func (r *Runner) eval(text string) (int64, calc.Node, bool, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil, false, nil
	}
	toks, err := calc.Tokenize(text)
	if err != nil {
		return 0, nil, true, err
	}
	tree, err := calc.Parse(toks)
	if err != nil {
		return 0, nil, true, err
	}
	v, err := calc.Eval(tree)
	if err != nil {
		return 0, tree, true, err
	}
	return v, tree, true, nil
}

// Handle evaluates one line and prints the outcome. failed reports whether
// the line was rejected. The failure itself is returned only under
// on_error = "abort"; under "skip" it is printed and err is nil.
func (r *Runner) Handle(text string) (failed bool, err error) {
	v, tree, ok, evalErr := r.eval(text)
	if !ok {
		return false, nil
	}
	if tree != nil && r.showTree {
		for _, ln := range strings.Split(strings.TrimRight(calc.Dump(tree), "\n"), "\n") {
			fmt.Fprintln(r.out, r.treeStyle.Render(ln))
		}
	}
	if evalErr != nil {
		r.log.Debug().
			Str("expr", text).
			Str("kind", calc.KindOf(evalErr).String()).
			Err(evalErr).
			Msg("expression failed")
		fmt.Fprintln(r.errOut, r.errorStyle.Render(evalErr.Error()))
		if r.cfg.OnError == config.OnErrorAbort {
			return true, evalErr
		}
		return true, nil
	}

	r.log.Debug().Str("expr", text).Int64("result", v).Msg("evaluated")
	fmt.Fprintln(r.out, r.valueStyle.Render(strconv.FormatInt(v, 10)))
	return false, nil
}

// Run handles every line of in until EOF, or until a failure under the
// abort policy. Lines have no length limit.
func (r *Runner) Run(in io.Reader) error {
	r.log.Info().Str("on_error", r.cfg.OnError).Msg("batch started")

	br := bufio.NewReader(in)
	lines, failures := 0, 0
	for {
		text, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("failed to read input: %w", readErr)
		}
		if text == "" && readErr == io.EOF {
			break
		}
		lines++
		failed, err := r.Handle(strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r"))
		if err != nil {
			r.log.Info().Int("line", lines).Msg("batch aborted")
			return fmt.Errorf("line %d: %w", lines, err)
		}
		if failed {
			failures++
		}
		if readErr == io.EOF {
			break
		}
	}

	r.log.Info().Int("lines", lines).Int("failed", failures).Msg("batch finished")
	return nil
}
