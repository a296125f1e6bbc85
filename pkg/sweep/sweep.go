// Package sweep varies one input of the longevity calculation over a fixed
// range while holding the others constant.
package sweep

import (
	"fmt"
	"math"

	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/iwvelando/capital-longevity/pkg/mathutil"
)

// Variable names the input that a Series varies.
type Variable string

const (
	// Capital sweeps the initial capital.
	Capital Variable = "capital"
	// Withdrawal sweeps the annual withdrawal.
	Withdrawal Variable = "withdrawal"
)

// ParseVariable validates a variable name.
func ParseVariable(name string) (Variable, error) {
	switch Variable(name) {
	case Capital, Withdrawal:
		return Variable(name), nil
	default:
		return "", fmt.Errorf("unknown sweep variable %q, expected %s or %s", name, Capital, Withdrawal)
	}
}

// AxisTitle is the chart axis title for the variable.
func (v Variable) AxisTitle() string {
	switch v {
	case Capital:
		return "Initial Capital ($)"
	case Withdrawal:
		return "Annual Withdrawal ($)"
	default:
		return string(v)
	}
}

// Range is an inclusive range stepped at a fixed interval.
type Range struct {
	Min  float64 `yaml:"min" json:"min" mapstructure:"min"`
	Max  float64 `yaml:"max" json:"max" mapstructure:"max"`
	Step float64 `yaml:"step" json:"step" mapstructure:"step"`
}

// Validate checks that the range can be enumerated.
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsInf(r.Min, 0) || math.IsNaN(r.Max) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("range bounds must be finite, got [%v, %v]", r.Min, r.Max)
	}
	if math.IsNaN(r.Step) || r.Step <= 0 {
		return fmt.Errorf("range step must be greater than zero, got %v", r.Step)
	}
	if r.Max < r.Min {
		return fmt.Errorf("range max %v is below min %v", r.Max, r.Min)
	}
	if n := r.count(); n > constants.MaxRangePoints {
		return fmt.Errorf("range [%v, %v] step %v yields %.0f values, limit is %d", r.Min, r.Max, r.Step, n, constants.MaxRangePoints)
	}
	return nil
}

// count is the number of values in a well-formed range, kept in float64 so
// huge counts do not overflow before they are rejected.
func (r Range) count() float64 {
	// Admit Max despite float error in (Max-Min)/Step.
	return math.Floor((r.Max-r.Min)/r.Step+constants.StepTolerance) + 1
}

// Len returns the number of values in the range, or zero for an invalid range.
func (r Range) Len() int {
	if r.Validate() != nil {
		return 0
	}
	return int(r.count())
}

// Values enumerates Min, Min+Step, ... up to and including Max when Max is
// reachable. Each value is computed from its index so error does not
// accumulate.
func (r Range) Values() []float64 {
	n := r.Len()
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = r.Min + float64(i)*r.Step
	}
	return values
}

// Contains reports whether v is one of the range's values.
func (r Range) Contains(v float64) bool {
	if r.Validate() != nil || v < r.Min || v > r.Max+r.Step*constants.StepTolerance {
		return false
	}
	steps := (v - r.Min) / r.Step
	return mathutil.WithinTolerance(steps, math.Round(steps), constants.StepTolerance)
}

// Point is one sample of a Series.
type Point struct {
	X      float64          `json:"x"`
	Result longevity.Result `json:"result"`
}

// Series is an ordered sequence of points produced by varying one input.
type Series struct {
	Variable Variable `json:"variable"`
	Points   []Point  `json:"points"`
}

// OverCapital computes longevity for every capital in r with the withdrawal
// and rate held fixed.
func OverCapital(r Range, withdrawal, rate float64) Series {
	values := r.Values()
	points := make([]Point, 0, len(values))
	for _, capital := range values {
		points = append(points, Point{X: capital, Result: longevity.ComputeYears(capital, withdrawal, rate)})
	}
	return Series{Variable: Capital, Points: points}
}

// OverWithdrawal computes longevity for every withdrawal in r with the
// capital and rate held fixed.
func OverWithdrawal(r Range, capital, rate float64) Series {
	values := r.Values()
	points := make([]Point, 0, len(values))
	for _, withdrawal := range values {
		points = append(points, Point{X: withdrawal, Result: longevity.ComputeYears(capital, withdrawal, rate)})
	}
	return Series{Variable: Withdrawal, Points: points}
}

// Run dispatches to OverCapital or OverWithdrawal. The fixed value is the
// withdrawal when sweeping capital and the capital when sweeping withdrawal.
func Run(variable Variable, r Range, fixed, rate float64) (Series, error) {
	if err := r.Validate(); err != nil {
		return Series{}, err
	}
	switch variable {
	case Capital:
		return OverCapital(r, fixed, rate), nil
	case Withdrawal:
		return OverWithdrawal(r, fixed, rate), nil
	default:
		return Series{}, fmt.Errorf("unknown sweep variable %q", variable)
	}
}
