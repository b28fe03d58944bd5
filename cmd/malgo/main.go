package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	malgo "github.com/dotshix/malgo"
)

const appName = "malgo"

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(2)
	}

	if len(os.Args) < 2 {
		os.Exit(cmdRepl(cfg))
	}

	switch cmd := os.Args[1]; cmd {
	case "repl":
		os.Exit(cmdRepl(cfg))
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "get":
		os.Exit(cmdGet(cfg, os.Args[2:]))
	case "version":
		fmt.Println(malgo.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`malgo %s

Usage:
  %s [repl]               Start the REPL (default).
  %s run <file.mal>       Evaluate a file.
  %s get <git-url>[@rev]  Fetch a library of .mal sources into the lib dir.
  %s version              Print the version.

Configuration is read from ~/%s when present.
`, malgo.Version, appName, appName, appName, appName, configFile)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.mal>\n", appName)
		return 2
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}

	ip := malgo.NewInterpreter()
	if _, err := ip.EvalSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, malgo.WrapErrorWithSource(err, string(src)).Error())
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(cfg *Config) int {
	fmt.Printf("malgo %s\nCtrl+C or Ctrl+D exits.\n", malgo.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	ip := malgo.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, cfg.Prompt, contPrompt(cfg.Prompt))
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		out, err := ip.Rep(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, colorIf(cfg.Color, red, malgo.WrapErrorWithSource(err, code).Error()))
			continue
		}
		fmt.Println(colorIf(cfg.Color, blue, out))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

func colorIf(enabled bool, paint func(string) string, s string) string {
	if !enabled {
		return s
	}
	return paint(s)
}

// contPrompt derives a same-width continuation prompt ("user> " → ".....>").
func contPrompt(prompt string) string {
	n := len(prompt) - 2
	if n < 1 {
		n = 1
	}
	return strings.Repeat(".", n) + "> "
}

// readByParseProbe accumulates lines until the input reads as complete forms.
// While the reader reports an unbalanced form at end of input, keep prompting
// with the continuation prompt. Ctrl-D and Ctrl-C both return ok=false and
// end the session.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, rerr := malgo.ReadStr(src); needsMoreInput(rerr) {
			continue
		}
		return src, true
	}
}

// needsMoreInput reports whether the read error means the input is merely
// incomplete rather than malformed.
func needsMoreInput(err error) bool {
	var pe *malgo.ParseError
	return errors.As(err, &pe) && strings.Contains(pe.Msg, "unexpected end of input")
}
