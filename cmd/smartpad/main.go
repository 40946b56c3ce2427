package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"

	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/engine"
	"github.com/nmaxcom/smartpad/internal/history"
	"github.com/nmaxcom/smartpad/internal/notebook"
)

const (
	escNormal = "\x1b[0m"
	escBold   = "\x1b[1m"
	escDim    = "\x1b[2m"
	escRed    = "\x1b[31m"
)

var colorize = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func main() {
	configPath := flag.String("config", "", "path to a YAML settings file")
	tracing := flag.Bool("trace", false, "print evaluation traces after each statement")
	dbPath := flag.String("db", defaultDBPath(), "path to the saved-notebook database")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "smartpad: %v\n", err)
			os.Exit(1)
		}
		settings = s
	}

	nb := notebook.New(settings)
	if *tracing {
		nb.EnableTrace()
	}

	if flag.NArg() > 0 {
		runFile(nb, flag.Arg(0))
		return
	}
	runREPL(nb, *dbPath, *tracing)
}

// runFile evaluates a document and prints each line with its result.
func runFile(nb *notebook.Notebook, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smartpad: %v\n", err)
		os.Exit(1)
	}
	for _, r := range nb.EvalDocument(strings.TrimRight(string(data), "\n")) {
		printResult(r, true)
	}
}

func runREPL(nb *notebook.Notebook, dbPath string, tracing bool) {
	rl, err := readline.New(bold("> "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "smartpad: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("smartpad — type :help for commands")
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := command(nb, dbPath, strings.TrimSpace(line)); quit {
				break
			}
			continue
		}
		r := nb.EvalLine(line)
		printResult(r, false)
		if tracing {
			printTraces(nb)
		}
	}
}

// command dispatches a :-prefixed REPL directive.
func command(nb *notebook.Notebook, dbPath, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":q", ":quit", ":exit":
		return true
	case ":help":
		fmt.Println(":vars          show bindings")
		fmt.Println(":reset         clear the notebook")
		fmt.Println(":save NAME     save the session transcript")
		fmt.Println(":open NAME     load and evaluate a saved notebook")
		fmt.Println(":list          list saved notebooks")
		fmt.Println(":q             quit")
	case ":vars":
		for name, v := range nb.Variables() {
			fmt.Printf("  %s = %s\n", name, v.Display(nb.Settings()))
		}
	case ":reset":
		nb.Reset()
	case ":list":
		withStore(dbPath, func(st *history.Store) {
			entries, err := st.List()
			if err != nil {
				warnf("%v", err)
				return
			}
			for _, e := range entries {
				fmt.Printf("  %-20s %s\n", e.Name, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
		})
	case ":save":
		if len(fields) < 2 {
			warnf("usage: :save NAME")
			return false
		}
		withStore(dbPath, func(st *history.Store) {
			if _, err := st.Save(fields[1], transcript(nb)); err != nil {
				warnf("%v", err)
			}
		})
	case ":open":
		if len(fields) < 2 {
			warnf("usage: :open NAME")
			return false
		}
		withStore(dbPath, func(st *history.Store) {
			e, err := st.Load(fields[1])
			if err != nil {
				warnf("%v", err)
				return
			}
			for _, r := range nb.EvalDocument(e.Content) {
				printResult(r, true)
			}
		})
	default:
		warnf("unknown command %s", fields[0])
	}
	return false
}

// transcript rebuilds the session source from the raw input lines.
func transcript(nb *notebook.Notebook) string {
	var b strings.Builder
	for _, v := range nb.Inputs() {
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}

func printResult(r *engine.Result, echoInput bool) {
	if echoInput {
		fmt.Print(r.Input)
		if r.Output != "" {
			fmt.Print(dim("  ──  "))
		}
	}
	switch r.Kind {
	case engine.ResultError:
		fmt.Println(colorized(escRed, r.Output))
	case engine.ResultText, engine.ResultVariable:
		if echoInput {
			fmt.Println()
		}
	default:
		fmt.Println(bold(r.Output))
	}
}

func printTraces(nb *notebook.Notebook) {
	traces := nb.Traces()
	if len(traces) == 0 {
		return
	}
	t := traces[len(traces)-1]
	fmt.Println(dim(fmt.Sprintf("  trace %s", t.ID)))
	for _, ev := range t.Events {
		fmt.Println(dim(fmt.Sprintf("    %-20s %s", ev.Stage, ev.Note)))
	}
}

func withStore(dbPath string, fn func(*history.Store)) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		warnf("%v", err)
		return
	}
	st, err := history.Open(dbPath)
	if err != nil {
		warnf("%v", err)
		return
	}
	defer st.Close()
	fn(st)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "smartpad.db"
	}
	return filepath.Join(home, ".smartpad", "notebooks.db")
}

func warnf(format string, args ...interface{}) {
	fmt.Println(colorized(escRed, fmt.Sprintf("⚠ "+format, args...)))
}

func bold(s string) string { return colorized(escBold, s) }
func dim(s string) string  { return colorized(escDim, s) }

func colorized(esc, s string) string {
	if !colorize {
		return s
	}
	return esc + s + escNormal
}
