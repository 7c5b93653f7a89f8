// Command aircargo runs search experiments on air cargo planning problems.
//
// The run is configured by the YAML file named in AIRCARGO_CONFIG; without
// it every built-in instance is solved by the default searcher line-up.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/elektrokombinacija/aircargo/internal/config"
	"github.com/elektrokombinacija/aircargo/internal/runner"
)

func main() {
	if err := run(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	logger, err := cfg.Logging.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r, err := runner.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printSection("Air Cargo Planning")
	logger.Info("starting runs",
		zap.Strings("instances", cfg.Instances),
		zap.Int("searchers", len(cfg.Searchers)),
		zap.Int("parallelism", cfg.Parallelism))

	runs, err := r.Run(ctx)
	if err != nil {
		return err
	}
	printRuns(runs)
	printSummary(runner.Summarize(runs))
	return nil
}

func printRuns(runs []runner.Run) {
	current := ""
	for _, run := range runs {
		if run.Instance != current {
			current = run.Instance
			printSubsection(fmt.Sprintf("%s: %d fluents, %d actions", run.Instance, run.Fluents, run.Actions))
			fmt.Printf("  %-45s %10s %10s %10s %6s %12s\n",
				"Searcher", "Expansions", "GoalTests", "NewNodes", "Plan", "Time")
			fmt.Println("  " + strings.Repeat("-", 98))
		}
		if !run.Solved() {
			fmt.Printf("  %-45s ", run.Searcher)
			printFailure(run.Err.Error())
			continue
		}
		res := run.Result
		fmt.Printf("  %-45s %10d %10d %10d %6d %12v\n",
			run.Searcher, res.Expansions, res.GoalTests, res.NewNodes, len(res.Plan), res.Elapsed.Round(time.Microsecond))
	}
}

func printSummary(summaries []runner.Summary) {
	printSection("Summary")
	fmt.Printf("  %-45s %6s %8s %10s %12s\n", "Searcher", "Runs", "Solved", "AvgPlan", "Time")
	fmt.Println("  " + strings.Repeat("-", 86))
	for _, s := range summaries {
		line := fmt.Sprintf("  %-45s %6d %8d %10.2f %12v", s.Searcher, s.Runs, s.Solved, s.AvgPlanLength(), s.Elapsed.Round(time.Microsecond))
		if s.Solved == s.Runs {
			printSuccess(line)
		} else {
			printWarning(line)
		}
	}
}
