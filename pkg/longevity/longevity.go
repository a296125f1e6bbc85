// Package longevity computes how long a pool of capital lasts when a constant
// annual withdrawal is taken from it while the remainder earns a constant real
// rate of return.
package longevity

import (
	"encoding/json"
	"fmt"
	"math"
)

// State classifies a computed longevity.
type State int

const (
	// Undefined marks a computation outside the formula's numeric domain.
	Undefined State = iota
	// Finite marks a capital pool that is depleted after Result.Years.
	Finite
	// Infinite marks a withdrawal that never exceeds the return generated.
	Infinite
)

var stateNames = map[State]string{
	Undefined: "undefined",
	Finite:    "finite",
	Infinite:  "infinite",
}

// String returns the lower-case name of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState converts a state name back into a State.
func ParseState(name string) (State, error) {
	for state, stateName := range stateNames {
		if stateName == name {
			return state, nil
		}
	}
	return Undefined, fmt.Errorf("unknown longevity state %q", name)
}

// Result is the outcome of ComputeYears. Years is only meaningful when State
// is Finite.
type Result struct {
	State State
	Years float64
}

// FiniteYears returns a Finite result of the given duration.
func FiniteYears(years float64) Result {
	return Result{State: Finite, Years: years}
}

// InfiniteYears returns the Infinite result.
func InfiniteYears() Result {
	return Result{State: Infinite}
}

// UndefinedYears returns the Undefined result.
func UndefinedYears() Result {
	return Result{State: Undefined}
}

// IsFinite reports whether the result holds a usable duration.
func (r Result) IsFinite() bool { return r.State == Finite }

// IsInfinite reports whether the capital is never depleted.
func (r Result) IsInfinite() bool { return r.State == Infinite }

// IsUndefined reports whether the formula had no defined value.
func (r Result) IsUndefined() bool { return r.State == Undefined }

// Float64 maps the result onto a float: the duration, +Inf or NaN.
func (r Result) Float64() float64 {
	switch r.State {
	case Finite:
		return r.Years
	case Infinite:
		return math.Inf(1)
	default:
		return math.NaN()
	}
}

// FromFloat64 classifies a raw float produced elsewhere (e.g. a stored memo).
func FromFloat64(v float64) Result {
	switch {
	case math.IsNaN(v):
		return UndefinedYears()
	case math.IsInf(v, 1):
		return InfiniteYears()
	case math.IsInf(v, -1):
		return UndefinedYears()
	default:
		return FiniteYears(v)
	}
}

type resultJSON struct {
	State string   `json:"state"`
	Years *float64 `json:"years,omitempty"`
}

// MarshalJSON encodes the result as {"state": "...", "years": n}; years is
// only present for finite results since JSON cannot carry Inf or NaN.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{State: r.State.String()}
	if r.State == Finite {
		years := r.Years
		out.Years = &years
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	state, err := ParseState(in.State)
	if err != nil {
		return err
	}
	if state == Finite {
		if in.Years == nil {
			return fmt.Errorf("finite longevity requires years")
		}
		*r = FiniteYears(*in.Years)
		return nil
	}
	*r = Result{State: state}
	return nil
}

// ComputeYears returns the number of years a capital pool lasts when
// withdrawal is taken every year and the balance earns rate (a fraction, not
// a percentage).
//
// With ratio = rate*capital/withdrawal the result is Infinite when ratio >= 1
// and -ln(1-ratio)/ln(1+rate) otherwise. Division by zero, rate <= -1 and
// rate == 0 all fall outside the formula and yield Undefined.
func ComputeYears(capital, withdrawal, rate float64) Result {
	if !isFinite(capital) || !isFinite(withdrawal) || !isFinite(rate) {
		return UndefinedYears()
	}
	if withdrawal == 0 {
		return UndefinedYears()
	}

	ratio := rate * capital / withdrawal
	if ratio >= 1 {
		return InfiniteYears()
	}
	if rate <= -1 {
		return UndefinedYears()
	}

	// rate == 0 leaves 0/0 here; the NaN is reported as Undefined.
	years := -math.Log(1-ratio) / math.Log(1+rate)
	if !isFinite(years) {
		return UndefinedYears()
	}
	return FiniteYears(years)
}

// Delta returns current minus previous. The boolean is false when there is no
// previous value or either side is not finite.
func Delta(previous *Result, current Result) (float64, bool) {
	if previous == nil || !previous.IsFinite() || !current.IsFinite() {
		return 0, false
	}
	return current.Years - previous.Years, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
