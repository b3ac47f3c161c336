// Command qsmin minimizes a weighted set of prime-implicant classes against a DIMACS CNF formula.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/amterp/color"

	qsm "github.com/lfalkau/qsmin"
	"github.com/lfalkau/qsmin/internal/coverage"
	"github.com/lfalkau/qsmin/internal/logging"
)

var slogLevel = func() *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(logging.LevelInfo)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return lvl
}()

type config struct {
	cnf          string
	pic          string
	allSolutions bool
	preferConsts bool
	verbose      bool
	help         bool
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: qsmin -cnf <path> -pic <path> [options]")
	fmt.Fprintln(w, "options:")
	fmt.Fprintln(w, "  -cnf <path>        DIMACS CNF file (required)")
	fmt.Fprintln(w, "  -pic <path>        PI-class descriptor file (required)")
	fmt.Fprintln(w, "  -all-solutions     enumerate all cost-optimal solutions")
	fmt.Fprintln(w, "  -prefer-consts     prefer constant-valued classes when branching")
	fmt.Fprintln(w, "  -verbose           emit a per-step inference trace")
	fmt.Fprintln(w, "  -v                 increase ambient log verbosity (repeatable)")
	fmt.Fprintln(w, "  -q                 decrease ambient log verbosity (repeatable)")
	fmt.Fprintln(w, "  -help              print this message and exit")
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("qsmin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.cnf, "cnf", "", "DIMACS CNF file")
	fs.StringVar(&cfg.pic, "pic", "", "PI-class descriptor file")
	fs.BoolVar(&cfg.allSolutions, "all-solutions", false, "enumerate all cost-optimal solutions")
	fs.BoolVar(&cfg.preferConsts, "prefer-consts", false, "prefer constant-valued classes when branching")
	fs.BoolVar(&cfg.verbose, "verbose", false, "emit a per-step inference trace")
	fs.BoolVar(&cfg.help, "help", false, "print usage and exit")

	bumpLogLevel := func(lower bool) {
		slog.Debug("log level pre-change", "level", slogLevel.Level())
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), lower))
		slog.Debug("log level post-change", "level", slogLevel.Level())
	}
	setLogLevel := func(arg string) error {
		lvl, err := logging.StringToLevel(arg)
		if err != nil {
			return err
		}
		slogLevel.Set(lvl)
		return nil
	}
	fs.BoolFunc("v", "Increase ambient log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(true)
		default:
			return setLogLevel(arg)
		}
		return nil
	})
	fs.BoolFunc("q", "Decrease ambient log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(false)
		default:
			return setLogLevel(arg)
		}
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.verbose && slogLevel.Level() > logging.LevelVerbose {
		slogLevel.Set(logging.LevelVerbose)
	}
	return cfg, nil
}

// installSignalHandler mirrors the collaborator signal layer spec.md §9 places outside the core:
// on interruption it reports the event and terminates immediately, with no attempt at a graceful
// mid-search checkpoint.
func installSignalHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT)
	go func() {
		<-sigCh
		fmt.Println("c Signal interruption.")
		os.Exit(1)
	}()
}

func run(cfg *config) int {
	if cfg.cnf == "" || cfg.pic == "" {
		printUsage(os.Stderr)
		return 1
	}

	inputs, err := qsm.LoadInputs(cfg.cnf, cfg.pic)
	if err != nil {
		slog.Error("failed to load inputs", "error", err)
		return 1
	}

	cc := coverage.New(inputs.Solver, inputs.Store.MaxCare())
	defer inputs.Solver.DisconnectExternalPropagator()

	engine := qsm.NewEngine(inputs.Store, inputs.Solver, cc)
	engine.SetAllSolutions(cfg.allSolutions)
	engine.SetPreferConsts(cfg.preferConsts)
	engine.SetVerbose(cfg.verbose)
	if cfg.verbose {
		tracef := color.New(color.FgHiBlack).SprintfFunc()
		engine.SetTracer(func(format string, args ...any) {
			fmt.Println(tracef(format, args...))
		})
	}

	engine.Solve()

	for _, sol := range engine.Solutions() {
		engine.PrintSolution(os.Stdout, sol)
	}
	fmt.Printf("c Number of SAT calls: %d\n", engine.SATCalls())
	return 0
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if cfg.help {
		// Matches the original tool's quirk: --help still exits non-zero.
		printUsage(os.Stdout)
		os.Exit(1)
	}

	installSignalHandler()
	os.Exit(run(cfg))
}
