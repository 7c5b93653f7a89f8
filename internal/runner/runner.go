// Package runner runs every configured searcher on every configured
// instance and collects the metrics of each run.
package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/aircargo/internal/config"
	"github.com/elektrokombinacija/aircargo/internal/core"
	"github.com/elektrokombinacija/aircargo/internal/instance"
	"github.com/elektrokombinacija/aircargo/internal/kb"
	"github.com/elektrokombinacija/aircargo/internal/search"
)

// Run is the outcome of one searcher on one instance.
type Run struct {
	ID       string
	Instance string
	Searcher string
	Fluents  int
	Actions  int
	Facts    int            // facts in the final-state knowledge base
	Result   *search.Result // nil when Err is set
	Err      error
}

// Solved reports whether the run produced a valid plan.
func (r Run) Solved() bool { return r.Err == nil && r.Result != nil }

// Runner executes the instance × searcher matrix of a config.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a runner. cfg must validate.
func New(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}, nil
}

type loaded struct {
	name    string
	problem *core.Problem
}

// load builds every configured problem, reporting all failures together.
func (r *Runner) load() ([]loaded, error) {
	var errs error
	var out []loaded
	for _, ref := range r.cfg.Instances {
		spec, err := instance.Resolve(ref)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		p, err := spec.Problem(core.WithLogger(r.logger.With(zap.String("instance", spec.Name))))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, loaded{name: spec.Name, problem: p})
	}
	return out, errs
}

// Run executes every run, at most cfg.Parallelism at a time. Problems are
// built once and shared by all runs on them. Search failures are recorded
// per run; the returned error is set only when an instance cannot be
// loaded or ctx is done.
func (r *Runner) Run(ctx context.Context) ([]Run, error) {
	problems, err := r.load()
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(problems)*len(r.cfg.Searchers))
	for _, lp := range problems {
		for _, sc := range r.cfg.Searchers {
			runs = append(runs, Run{Instance: lp.name, Searcher: sc.Name})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallelism)

	i := 0
	for _, lp := range problems {
		for _, sc := range r.cfg.Searchers {
			run := &runs[i]
			i++
			p := lp.problem
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				r.execute(gctx, run, p, sc)
				return ctx.Err()
			})
		}
	}
	if err := g.Wait(); err != nil {
		return runs, err
	}
	return runs, nil
}

func (r *Runner) execute(ctx context.Context, run *Run, p *core.Problem, sc config.SearcherConfig) {
	run.ID = uuid.New().String()
	run.Fluents = p.FluentMap().Len()
	run.Actions = len(p.AllActions())
	log := r.logger.With(
		zap.String("run_id", run.ID),
		zap.String("instance", run.Instance))

	s, err := search.New(sc.Name, sc.Heuristic, r.cfg.SearchOptions(log))
	if err != nil {
		run.Err = err
		return
	}
	run.Searcher = s.Name()

	if timeout := r.cfg.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := s.Search(ctx, p)
	if err == nil {
		if verr := p.ValidatePlan(res.Plan); verr != nil {
			err = fmt.Errorf("invalid plan: %w", verr)
		}
	}
	if err == nil {
		run.Facts, err = entailGoal(p, res.Plan)
	}
	if err != nil {
		run.Err = err
		log.Info("run failed", zap.String("searcher", run.Searcher), zap.Error(err))
		return
	}
	run.Result = res
	log.Info("run finished",
		zap.String("searcher", run.Searcher),
		zap.Int("plan_length", len(res.Plan)),
		zap.Int("expansions", res.Expansions),
		zap.Int("kb_facts", run.Facts),
		zap.Bool("goal_entailed", true),
		zap.Duration("elapsed", res.Elapsed))
}

// entailGoal replays plan, tells the final state to a knowledge base and
// checks that the knowledge base entails the goal. It returns the number
// of facts told.
func entailGoal(p *core.Problem, plan []core.Action) (int, error) {
	s := p.Initial()
	for _, a := range plan {
		s = p.Result(s, a)
	}
	k := kb.FromState(p, s)
	if !p.GoalEntailed(k) {
		return k.Len(), fmt.Errorf("%w: final state does not entail %v", core.ErrGoalNotReached, k.Missing(p.Goal()))
	}
	return k.Len(), nil
}

// Summary aggregates the runs of one searcher.
type Summary struct {
	Searcher   string
	Runs       int
	Solved     int
	PlanLength int
	Expansions int
	GoalTests  int
	NewNodes   int
	Elapsed    time.Duration
}

// AvgPlanLength returns the mean plan length over solved runs.
func (s Summary) AvgPlanLength() float64 {
	if s.Solved == 0 {
		return 0
	}
	return float64(s.PlanLength) / float64(s.Solved)
}

// Summarize aggregates runs by searcher, sorted by searcher name.
func Summarize(runs []Run) []Summary {
	byName := make(map[string]*Summary)
	for _, run := range runs {
		m, ok := byName[run.Searcher]
		if !ok {
			m = &Summary{Searcher: run.Searcher}
			byName[run.Searcher] = m
		}
		m.Runs++
		if !run.Solved() {
			continue
		}
		m.Solved++
		m.PlanLength += len(run.Result.Plan)
		m.Expansions += run.Result.Expansions
		m.GoalTests += run.Result.GoalTests
		m.NewNodes += run.Result.NewNodes
		m.Elapsed += run.Result.Elapsed
	}

	var names []string
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Summary, 0, len(names))
	for _, name := range names {
		out = append(out, *byName[name])
	}
	return out
}
