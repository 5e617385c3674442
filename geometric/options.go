package geometric

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/rossng/oxmpl/base"
)

// Algorithm names accepted by NewPlannerFromConfig.
const (
	AlgorithmRRT        = "rrt"
	AlgorithmRRTConnect = "rrt_connect"
	AlgorithmRRTStar    = "rrt_star"
	AlgorithmPRM        = "prm"
)

// plannerConfig is the typed form of the loosely-typed parameter maps a
// binding layer passes through. Unknown keys are ignored.
type plannerConfig struct {
	MaxDistance      float64 `json:"max_distance"`
	GoalBias         float64 `json:"goal_bias"`
	SearchRadius     float64 `json:"search_radius"`
	ConnectionRadius float64 `json:"connection_radius"`
	BuildTimeoutSecs float64 `json:"build_timeout"`
	Resolution       float64 `json:"resolution"`
	MaxIterations    int     `json:"max_iterations"`
	RandomSeed       *int64  `json:"rseed"`
}

func newPlannerConfig(cfg map[string]interface{}) (*plannerConfig, error) {
	parsed := &plannerConfig{
		MaxDistance:      0.5,
		GoalBias:         0.05,
		SearchRadius:     1.0,
		ConnectionRadius: 0.5,
		BuildTimeoutSecs: 5.0,
	}
	if cfg == nil {
		return parsed, nil
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "planner config is not serializable")
	}
	if err := json.Unmarshal(data, parsed); err != nil {
		return nil, errors.Wrap(err, "planner config has malformed values")
	}
	return parsed, nil
}

func (cfg *plannerConfig) options() []Option {
	opts := []Option{}
	if cfg.Resolution > 0 {
		opts = append(opts, WithResolution(cfg.Resolution))
	}
	if cfg.MaxIterations > 0 {
		opts = append(opts, WithMaxIterations(cfg.MaxIterations))
	}
	if cfg.RandomSeed != nil {
		opts = append(opts, WithSeed(*cfg.RandomSeed))
	}
	return opts
}

// NewPlannerFromConfig builds a planner from an algorithm name and a
// free-form parameter map, for callers that receive planning requests as
// loosely-typed data. Missing parameters take modest defaults.
func NewPlannerFromConfig(algorithm string, pd *base.ProblemDefinition, cfg map[string]interface{}) (Planner, error) {
	parsed, err := newPlannerConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts := parsed.options()
	switch algorithm {
	case AlgorithmRRT:
		return NewRRT(pd, parsed.MaxDistance, parsed.GoalBias, opts...)
	case AlgorithmRRTConnect:
		return NewRRTConnect(pd, parsed.MaxDistance, opts...)
	case AlgorithmRRTStar:
		return NewRRTStar(pd, parsed.MaxDistance, parsed.GoalBias, parsed.SearchRadius, opts...)
	case AlgorithmPRM:
		return NewPRM(pd, time.Duration(parsed.BuildTimeoutSecs*float64(time.Second)), parsed.ConnectionRadius, opts...)
	default:
		return nil, errors.Errorf("unknown planning algorithm %q", algorithm)
	}
}
