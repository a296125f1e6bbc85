package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/iwvelando/capital-longevity/internal/config"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateDefaults(t *testing.T) {
	conf := config.DefaultConfiguration()

	view := Update(conf, DefaultInputs(conf), nil)

	assert.Equal(t, "17.21", view.Years)
	assert.Equal(t, "–", view.Delta)
	assert.True(t, view.Result.IsFinite())
	assert.Equal(t, view.Result, view.Memo)

	assert.Equal(t, CapitalChartTitle, view.CapitalChart.Title)
	assert.Equal(t, "Initial Capital ($)", view.CapitalChart.XAxisTitle)
	assert.Equal(t, "Years", view.CapitalChart.YAxisTitle)
	assert.Len(t, view.CapitalChart.Points, 81)

	assert.Equal(t, WithdrawalChartTitle, view.WithdrawalChart.Title)
	assert.Equal(t, "Annual Withdrawal ($)", view.WithdrawalChart.XAxisTitle)
	assert.Len(t, view.WithdrawalChart.Points, 41)
}

func TestUpdateInfinite(t *testing.T) {
	conf := config.DefaultConfiguration()
	previous := longevity.FiniteYears(17.47)

	view := Update(conf, Inputs{Capital: 300000, Withdrawal: 10000, RatePercent: 5}, &previous)

	assert.Equal(t, "∞", view.Years)
	assert.Equal(t, "–", view.Delta)
	assert.True(t, view.Memo.IsInfinite())
}

func TestUpdateDeltaAcrossCalls(t *testing.T) {
	conf := config.DefaultConfiguration()

	first := Update(conf, Inputs{Capital: 250000, Withdrawal: 22000, RatePercent: 5}, nil)
	second := Update(conf, Inputs{Capital: 264000, Withdrawal: 22000, RatePercent: 5}, &first.Memo)

	require.True(t, second.Result.IsFinite())
	delta := second.Result.Years - first.Result.Years
	assert.Greater(t, delta, 0.0)
	assert.Equal(t, "+1.57 years", second.Delta)

	third := Update(conf, Inputs{Capital: 250000, Withdrawal: 22000, RatePercent: 5}, &second.Memo)
	assert.Equal(t, "-1.57 years", third.Delta)
}

func TestUpdateUndefined(t *testing.T) {
	conf := config.DefaultConfiguration()
	previous := longevity.FiniteYears(10)

	view := Update(conf, Inputs{Capital: 250000, Withdrawal: 22000, RatePercent: 0}, &previous)

	assert.Equal(t, "nan", view.Years)
	assert.Equal(t, "–", view.Delta)
	assert.True(t, view.Memo.IsUndefined())
	for _, point := range view.CapitalChart.Points {
		assert.Nil(t, point.Y)
		assert.Equal(t, "undefined", point.State)
	}
}

func TestChartPointsBreakOnInfinite(t *testing.T) {
	conf := config.DefaultConfiguration()

	view := Update(conf, DefaultInputs(conf), nil)

	for _, point := range view.CapitalChart.Points {
		if point.X >= 440000 {
			assert.Nil(t, point.Y, "capital %v", point.X)
			assert.Equal(t, "infinite", point.State)
		} else {
			require.NotNil(t, point.Y, "capital %v", point.X)
			assert.Equal(t, "finite", point.State)
		}
	}

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"y":null`)
}

func TestOptions(t *testing.T) {
	conf := config.DefaultConfiguration()

	opts := Options(conf)

	require.Len(t, opts.Capital.Options, 401)
	assert.Equal(t, Option{Label: "$100,000", Value: 100000}, opts.Capital.Options[0])
	assert.Equal(t, Option{Label: "$500,000", Value: 500000}, opts.Capital.Options[400])
	assert.Equal(t, 250000.0, opts.Capital.Default)

	require.Len(t, opts.Withdrawal.Options, 81)
	assert.Equal(t, Option{Label: "$10,250", Value: 10250}, opts.Withdrawal.Options[1])
	assert.Equal(t, 22000.0, opts.Withdrawal.Default)

	assert.Equal(t, RateInput{Default: 5.0, Step: 0.1}, opts.Rate)
}

func TestInputsRate(t *testing.T) {
	assert.InDelta(t, 0.05, Inputs{RatePercent: 5}.Rate(), 1e-12)
	assert.InDelta(t, -0.021, Inputs{RatePercent: -2.1}.Rate(), 1e-12)
}
