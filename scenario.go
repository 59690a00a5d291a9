package coinbound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Scenario is one expected evaluation of the bound.
type Scenario struct {
	Name      string `yaml:"name" json:"name"`
	M         int    `yaml:"m" json:"m"`
	N         int    `yaml:"n" json:"n"`
	K         int    `yaml:"k" json:"k"`
	KnownType bool   `yaml:"known_type" json:"known_type"`

	// Expected is the bound the scenario asserts. Ignored when ExpectError is set.
	Expected int `yaml:"expected" json:"expected"`

	// ExpectError asserts that the inputs are rejected with ErrInvalidArgument.
	ExpectError bool `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`
}

// Params returns the scenario's inputs.
func (s Scenario) Params() Params {
	return Params{M: s.M, N: s.N, K: s.K, KnownType: s.KnownType}
}

// ScenarioResult is the outcome of running one scenario.
type ScenarioResult struct {
	Scenario Scenario `json:"scenario"`
	Got      int      `json:"got"`
	Err      string   `json:"error,omitempty"`
	Passed   bool     `json:"passed"`
}

// Report collects the results of RunScenarios in input order.
type Report struct {
	Results []ScenarioResult `json:"results"`
	Passed  int              `json:"passed"`
	Failed  int              `json:"failed"`
}

// OK reports whether every scenario passed.
func (r Report) OK() bool {
	return r.Failed == 0
}

// Summary is the one-line human-readable verdict.
func (r Report) Summary() string {
	total := r.Passed + r.Failed
	if r.OK() {
		return fmt.Sprintf("All %d scenarios passed", total)
	}
	return fmt.Sprintf("%d of %d scenarios failed", r.Failed, total)
}

// DefaultScenarios returns the reference table of weighing bounds together
// with the boundary cases.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "twelve-coins-unknown", M: 1, N: 12, K: 1, Expected: 3},
		{Name: "twelve-coins-known", M: 1, N: 12, K: 1, KnownType: true, Expected: 3},
		{Name: "three-coins-unknown", M: 1, N: 3, K: 1, Expected: 2},
		{Name: "three-coins-known", M: 1, N: 3, K: 1, KnownType: true, Expected: 1},
		{Name: "two-of-twenty-unknown", M: 2, N: 20, K: 1, Expected: 7},
		{Name: "two-of-twenty-known", M: 2, N: 20, K: 1, KnownType: true, Expected: 5},
		{Name: "fifty-million-unknown", M: 500, N: 50_000_000, K: 10, Expected: 601},
		{Name: "fifty-million-known", M: 500, N: 50_000_000, K: 10, KnownType: true, Expected: 570},
		{Name: "three-coins-two-scales-unknown", M: 1, N: 3, K: 2, Expected: 1},
		{Name: "three-coins-two-scales-known", M: 1, N: 3, K: 2, KnownType: true, Expected: 1},
		{Name: "no-counterfeit", M: 0, N: 1000, K: 3, Expected: 0},
		{Name: "single-coin-unknown", M: 1, N: 1, K: 1, Expected: 1},
		{Name: "single-coin-known", M: 1, N: 1, K: 1, KnownType: true, Expected: 0},
		{Name: "zero-scales", M: 1, N: 12, K: 0, ExpectError: true},
	}
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// ParseScenarios decodes a YAML document with a top-level scenarios list.
// Unknown fields are rejected.
func ParseScenarios(data []byte) ([]Scenario, error) {
	var f scenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("scenarios list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate scenario name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return f.Scenarios, nil
}

// LoadScenarios reads and parses a scenario YAML file.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	scenarios, err := ParseScenarios(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

// HarnessConfig controls RunScenarios.
type HarnessConfig struct {
	Bound       BoundConfig
	Concurrency int // Scenarios evaluated at once; <= 0 means GOMAXPROCS
}

// DefaultHarnessConfig returns the default bound policy at GOMAXPROCS.
func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{
		Bound:       DefaultBoundConfig(),
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// RunScenarios evaluates every scenario concurrently and reports the results
// in input order. A scenario that fails, including one rejected with an
// unexpected error, is recorded in the report; only context cancellation
// makes RunScenarios itself fail. A nil logger uses slog.Default().
func RunScenarios(ctx context.Context, scenarios []Scenario, cfg HarnessConfig, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]ScenarioResult, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, s := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runScenario(s, cfg.Bound)
			logger.Debug("scenario evaluated",
				"name", s.Name,
				"params", s.Params().String(),
				"expected", s.Expected,
				"got", results[i].Got,
				"passed", results[i].Passed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("run scenarios: %w", err)
	}

	report := Report{Results: results}
	for _, r := range results {
		if r.Passed {
			report.Passed++
		} else {
			report.Failed++
			logger.Warn("scenario failed",
				"name", r.Scenario.Name,
				"expected", r.Scenario.Expected,
				"got", r.Got,
				"error", r.Err)
		}
	}
	logger.Info(report.Summary(), "passed", report.Passed, "failed", report.Failed)
	return report, nil
}

func runScenario(s Scenario, cfg BoundConfig) ScenarioResult {
	res := ScenarioResult{Scenario: s}
	got, err := MinWeighingsWithConfig(s.Params(), cfg)
	if err != nil {
		res.Err = err.Error()
		res.Passed = s.ExpectError && errors.Is(err, ErrInvalidArgument)
		return res
	}
	res.Got = got
	res.Passed = !s.ExpectError && got == s.Expected
	if s.ExpectError {
		res.Err = "expected invalid argument, got a bound"
	}
	return res
}
