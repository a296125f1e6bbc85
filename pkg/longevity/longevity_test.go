package longevity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeYears(t *testing.T) {
	tests := []struct {
		name       string
		capital    float64
		withdrawal float64
		rate       float64
		state      State
		years      float64
	}{
		{"default dashboard inputs", 250000, 22000, 0.05, Finite, 17.211474260173535},
		{"small capital", 100000, 22000, 0.05, Finite, 5.284448488567181},
		{"large withdrawal", 250000, 30000, 0.05, Finite, 11.04723687464816},
		{"negative rate", 100000, 10000, -0.02, Finite, 9.024610114301277},
		{"sustainable withdrawal", 300000, 10000, 0.05, Infinite, 0},
		{"ratio exactly one", 440000, 22000, 0.05, Infinite, 0},
		{"zero withdrawal", 250000, 0, 0.05, Undefined, 0},
		{"zero withdrawal zero rate", 250000, 0, 0, Undefined, 0},
		{"zero rate", 250000, 22000, 0, Undefined, 0},
		{"rate of minus one", 250000, 22000, -1, Undefined, 0},
		{"rate below minus one", 250000, 22000, -1.5, Undefined, 0},
		{"NaN rate", 250000, 22000, math.NaN(), Undefined, 0},
		{"infinite capital", math.Inf(1), 22000, 0.05, Undefined, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeYears(tt.capital, tt.withdrawal, tt.rate)
			require.Equal(t, tt.state, got.State, "state for %+v", tt)
			if tt.state == Finite {
				assert.InDelta(t, tt.years, got.Years, 1e-9)
			}
		})
	}
}

func TestComputeYearsMatchesFormula(t *testing.T) {
	for _, capital := range []float64{50000, 120000, 250000, 400000} {
		for _, withdrawal := range []float64{5000, 15000, 22000, 40000} {
			for _, rate := range []float64{-0.5, -0.03, 0.001, 0.02, 0.05, 0.09} {
				ratio := rate * capital / withdrawal
				got := ComputeYears(capital, withdrawal, rate)
				if ratio >= 1 {
					assert.True(t, got.IsInfinite(), "C=%v W=%v R=%v", capital, withdrawal, rate)
					continue
				}
				want := -math.Log(1-ratio) / math.Log(1+rate)
				require.True(t, got.IsFinite(), "C=%v W=%v R=%v", capital, withdrawal, rate)
				assert.InDelta(t, want, got.Years, 1e-9)
			}
		}
	}
}

func TestComputeYearsMonotonicInCapital(t *testing.T) {
	for _, rate := range []float64{0.01, 0.03, 0.05, 0.08} {
		previous := ComputeYears(10000, 22000, rate)
		for capital := 15000.0; capital <= 600000; capital += 5000 {
			current := ComputeYears(capital, 22000, rate)
			if previous.IsInfinite() {
				assert.True(t, current.IsInfinite(), "capital %v rate %v", capital, rate)
			} else if current.IsFinite() {
				assert.GreaterOrEqual(t, current.Years, previous.Years, "capital %v rate %v", capital, rate)
			}
			previous = current
		}
	}
}

func TestDelta(t *testing.T) {
	finitePrev := FiniteYears(17.47)
	infinitePrev := InfiniteYears()
	undefinedPrev := UndefinedYears()

	tests := []struct {
		name     string
		previous *Result
		current  Result
		want     float64
		ok       bool
	}{
		{"no previous", nil, FiniteYears(18), 0, false},
		{"finite to finite", &finitePrev, FiniteYears(18), 0.53, true},
		{"finite to infinite", &finitePrev, InfiniteYears(), 0, false},
		{"infinite to finite", &infinitePrev, FiniteYears(18), 0, false},
		{"undefined to finite", &undefinedPrev, FiniteYears(18), 0, false},
		{"finite to undefined", &finitePrev, UndefinedYears(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Delta(tt.previous, tt.current)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestResultJSON(t *testing.T) {
	tests := []struct {
		result Result
		json   string
	}{
		{FiniteYears(17.5), `{"state":"finite","years":17.5}`},
		{InfiniteYears(), `{"state":"infinite"}`},
		{UndefinedYears(), `{"state":"undefined"}`},
	}

	for _, tt := range tests {
		t.Run(tt.result.State.String(), func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var decoded Result
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.result, decoded)
		})
	}
}

func TestResultJSONRejectsBadInput(t *testing.T) {
	var r Result
	assert.Error(t, json.Unmarshal([]byte(`{"state":"finite"}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"state":"forever"}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`[]`), &r))
}

func TestFloat64RoundTrip(t *testing.T) {
	assert.True(t, math.IsInf(InfiniteYears().Float64(), 1))
	assert.True(t, math.IsNaN(UndefinedYears().Float64()))
	assert.Equal(t, 12.5, FiniteYears(12.5).Float64())

	assert.Equal(t, InfiniteYears(), FromFloat64(math.Inf(1)))
	assert.Equal(t, UndefinedYears(), FromFloat64(math.NaN()))
	assert.Equal(t, UndefinedYears(), FromFloat64(math.Inf(-1)))
	assert.Equal(t, FiniteYears(3), FromFloat64(3))
}
