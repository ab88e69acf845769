package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AuruTus/formal-methods/calc"
	"github.com/AuruTus/formal-methods/internal/config"
	"github.com/AuruTus/formal-methods/internal/repl"
)

var (
	banner   = fmt.Sprintf("calc %s\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.", calc.Version)
	helpText = `REPL commands:
  :tree    Toggle printing of the expression tree
  :help    Show this help
  :quit    Exit the REPL
`
)

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func runREPL(cmd *cobra.Command, cfg *config.Config, logger zerolog.Logger) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := &history{path: expandHome(cfg.HistoryFile), log: logger}
	hist.load(ln)
	defer hist.save(ln)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		sig := <-sigc
		hist.save(ln)
		ln.Close()
		os.Exit(exitCode(sig))
	}()

	r := repl.New(cfg, logger, out, cmd.ErrOrStderr())
	logger.Info().Str("session", r.ID()).Msg("repl started")
	defer func() { logger.Info().Str("session", r.ID()).Msg("repl stopped") }()

	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read line: %w", err)
		}

		code := strings.TrimSpace(line)
		if strings.HasPrefix(code, ":") {
			switch strings.ToLower(code) {
			case ":quit", ":q":
				return nil
			case ":help":
				fmt.Fprint(out, helpText)
			case ":tree":
				r.SetShowTree(!r.ShowTree())
				fmt.Fprintf(out, "tree display %s\n", onOff(r.ShowTree()))
			default:
				fmt.Fprintln(out, "unknown command. Type :help for commands.")
			}
			continue
		}
		if code == "" {
			continue
		}

		ln.AppendHistory(line)
		if _, err := r.Handle(line); err != nil {
			return err
		}
	}
}

// history persists the liner history to a file. save runs once, either on
// return or from the signal handler.
type history struct {
	path string
	log  zerolog.Logger
	once sync.Once
}

func (h *history) load(r interface {
	ReadHistory(io.Reader) (int, error)
}) {
	if h.path == "" {
		return
	}
	if f, err := os.Open(h.path); err == nil {
		_, _ = r.ReadHistory(f)
		_ = f.Close()
	}
}

func (h *history) save(w interface {
	WriteHistory(io.Writer) (int, error)
}) {
	if h.path == "" {
		return
	}
	h.once.Do(func() {
		f, err := os.Create(h.path)
		if err != nil {
			h.log.Warn().Err(err).Str("path", h.path).Msg("cannot write history")
			return
		}
		_, _ = w.WriteHistory(f)
		_ = f.Close()
	})
}

// exitCode follows the shell convention of 128 plus the signal number.
func exitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
