package geometric

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/rossng/oxmpl/base"
	"github.com/rossng/oxmpl/logging"
)

const (
	// defaultRandomSeed keeps solves reproducible unless a caller opts into
	// a different seed.
	defaultRandomSeed = 1

	// resolutionFraction divides a planner's step size to obtain the motion
	// validator resolution.
	resolutionFraction = 10

	// defaultGoalSampleRetries bounds how often one goal-sample request is
	// retried before the planner falls back to uniform sampling.
	defaultGoalSampleRetries = 16

	// defaultGoalSampleBudget is the cumulative failure count after which,
	// with no valid goal sample ever produced, the goal region is no longer
	// sampled this solve. Planners that need a goal sample then fail with
	// ErrInvalidGoalSample; goal-biased iterations fall back to uniform
	// sampling.
	defaultGoalSampleBudget = 100

	// equalStateTolerance is the metric tolerance for state identity checks
	// such as RRT-Connect's reached test.
	equalStateTolerance = 1e-9

	// loggingInterval is how many iterations pass between progress lines.
	loggingInterval = 500
)

// Planner is a configured motion planner. Setup must be called before
// Solve; Solve may be called repeatedly, and the RRT family rebuilds its
// trees on every call. A Planner instance is not safe for concurrent use,
// but distinct instances may share one problem definition.
type Planner interface {
	// Setup binds the host's validity checker. The checker is invoked
	// synchronously during Solve.
	Setup(checker base.StateValidityChecker) error

	// Solve searches for a path from the start state to the goal region
	// within the wall-clock budget. Cancellation is polled between
	// iterations; an iteration in progress runs to completion.
	Solve(ctx context.Context, timeout time.Duration) (*base.Path, error)
}

// Option configures a planner at construction.
type Option func(*planner)

// WithSeed seeds the planner's RNG. The default seed is fixed, so two
// planners constructed alike produce identical solves.
func WithSeed(seed int64) Option {
	return func(p *planner) {
		//nolint:gosec
		p.randseed = rand.New(rand.NewSource(seed))
	}
}

// WithLogger replaces the planner's default named logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *planner) {
		p.logger = logger
	}
}

// WithResolution overrides the motion validator's discretization step,
// which otherwise derives from the planner's step size.
func WithResolution(resolution float64) Option {
	return func(p *planner) {
		p.resolution = resolution
	}
}

// WithMaxIterations bounds the number of planning iterations (for PRM, the
// number of roadmap vertices) independently of the time budget. Zero means
// unbounded.
func WithMaxIterations(iterations int) Option {
	return func(p *planner) {
		p.maxIterations = iterations
	}
}

// planner carries the pieces every algorithm shares: the problem, its
// space, the RNG, the motion validator built at Setup, and goal-sampling
// bookkeeping.
type planner struct {
	pd       *base.ProblemDefinition
	space    base.StateSpace
	logger   logging.Logger
	randseed *rand.Rand
	nm       *neighborManager

	checker       base.StateValidityChecker
	motion        *base.DiscreteMotionValidator
	resolution    float64
	maxIterations int
	configured    bool
	start         time.Time

	goalSampleFailures  int
	goalSampleSuccesses int
}

func newPlanner(pd *base.ProblemDefinition, name string, stepSize float64, opts []Option) (*planner, error) {
	if pd == nil {
		return nil, errors.New("planner requires a problem definition")
	}
	mp := &planner{
		pd:     pd,
		space:  pd.Space(),
		logger: logging.NewLogger(name),
		//nolint:gosec
		randseed:   rand.New(rand.NewSource(defaultRandomSeed)),
		nm:         &neighborManager{nCPU: nCPU},
		resolution: stepSize / resolutionFraction,
	}
	for _, opt := range opts {
		opt(mp)
	}
	return mp, nil
}

func (mp *planner) setup(checker base.StateValidityChecker) error {
	if checker == nil {
		return errors.New("a state validity checker is required")
	}
	mp.checker = checker
	mp.motion = base.NewDiscreteMotionValidator(mp.space, checker, mp.resolution)
	mp.configured = true
	return nil
}

// validStart fetches the start state and confirms it is on-manifold and
// collision-free now that the checker is known.
func (mp *planner) validStart() (base.State, error) {
	start := mp.pd.StartState()
	if !mp.space.SatisfiesBounds(start) {
		return nil, errors.Wrap(base.ErrInvalidStart, "start state is off the space manifold")
	}
	if !mp.checker.IsValid(start) {
		return nil, errors.Wrap(base.ErrInvalidStart, "start state fails the validity checker")
	}
	return start, nil
}

// sampleValidGoal asks the goal region for an on-manifold, collision-free
// state, retrying a bounded number of times. A nil state with nil error
// means this request came up empty and the caller should fall back to
// uniform sampling. Once the cumulative budget is spent without a single
// success the host sampler is not consulted again this solve, so a walled
// off goal region degrades to plain RRT behavior instead of aborting.
func (mp *planner) sampleValidGoal() (base.State, error) {
	if mp.goalSamplingExhausted() {
		return nil, nil
	}
	for attempt := 0; attempt < defaultGoalSampleRetries; attempt++ {
		s, err := mp.pd.Goal().SampleGoal()
		if err != nil {
			return nil, base.NewCallbackError(err)
		}
		if s != nil {
			s = mp.space.EnforceBounds(s)
			if mp.checker.IsValid(s) {
				mp.goalSampleSuccesses++
				return s, nil
			}
		}
		mp.goalSampleFailures++
		if mp.goalSamplingExhausted() {
			mp.logger.Debugf("goal region produced no valid sample in %d attempts, disabling goal bias", mp.goalSampleFailures)
			return nil, nil
		}
	}
	return nil, nil
}

func (mp *planner) goalSamplingExhausted() bool {
	return mp.goalSampleSuccesses == 0 && mp.goalSampleFailures >= defaultGoalSampleBudget
}

// requireGoalSample retries sampleValidGoal until a state is produced, for
// planners that cannot proceed without one (goal tree roots, roadmap query
// vertices).
func (mp *planner) requireGoalSample() (base.State, error) {
	for attempt := 0; attempt < defaultGoalSampleBudget; attempt++ {
		s, err := mp.sampleValidGoal()
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
		if mp.goalSamplingExhausted() {
			break
		}
	}
	return nil, base.ErrInvalidGoalSample
}

// beginSolve stamps the solve start and clears per-solve goal-sampling
// bookkeeping.
func (mp *planner) beginSolve() {
	mp.start = time.Now()
	mp.goalSampleFailures = 0
	mp.goalSampleSuccesses = 0
}

// steer moves from one state toward another by at most maxDistance.
func (mp *planner) steer(from, toward base.State, maxDistance float64) base.State {
	d := mp.space.Distance(from, toward)
	if d <= maxDistance {
		return toward
	}
	return mp.space.Interpolate(from, toward, maxDistance/d)
}

// rrtSolution is the single message a solve runner publishes when it
// finishes.
type rrtSolution struct {
	path *base.Path
	err  error
}

// solveAsync runs the given runner on its own goroutine, converts callback
// panics into CallbackErrors, and waits for the solution. Host callbacks
// execute on the runner goroutine, synchronously with planning.
func (mp *planner) solveAsync(ctx context.Context, runner func(ctx context.Context, solutionChan chan<- *rrtSolution)) (*base.Path, error) {
	solutionChan := make(chan *rrtSolution, 1)
	utils.PanicCapturingGo(func() {
		defer func() {
			if r := recover(); r != nil {
				solutionChan <- &rrtSolution{err: base.NewCallbackError(r)}
			}
		}()
		runner(ctx, solutionChan)
	})
	solution := <-solutionChan
	if solution.err != nil {
		return nil, solution.err
	}
	return solution.path, nil
}
