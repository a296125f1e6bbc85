// Package dashboard recomputes the dashboard view whenever an input changes:
// the point longevity, its change from the previous value, and the two charts.
package dashboard

import (
	"github.com/iwvelando/capital-longevity/internal/config"
	"github.com/iwvelando/capital-longevity/pkg/format"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/iwvelando/capital-longevity/pkg/mathutil"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
)

// Chart titles and axis labels.
const (
	CapitalChartTitle    = "Years Capital Lasts vs Initial Capital"
	WithdrawalChartTitle = "Years Capital Lasts vs Annual Withdrawal"
	YearsAxisTitle       = "Years"
)

// Inputs are the current values of the three input controls.
type Inputs struct {
	Capital     float64 `json:"capital"`
	Withdrawal  float64 `json:"withdrawal"`
	RatePercent float64 `json:"ratePercent"`
}

// Rate returns the rate of return as a fraction.
func (in Inputs) Rate() float64 {
	return mathutil.PercentToFraction(in.RatePercent)
}

// Chart is one line chart dataset.
type Chart struct {
	Title      string       `json:"title"`
	XAxisTitle string       `json:"xAxisTitle"`
	YAxisTitle string       `json:"yAxisTitle"`
	Points     []ChartPoint `json:"points"`
}

// ChartPoint is a plotted sample. Y is nil where the result is not finite so
// the line breaks there.
type ChartPoint struct {
	X     float64  `json:"x"`
	Y     *float64 `json:"y"`
	State string   `json:"state"`
}

// View is everything the presentation layer renders after an update. Memo
// is what the client hands back as the previous result on its next update;
// Result describes the current inputs.
type View struct {
	Years           string           `json:"years"`
	Delta           string           `json:"delta"`
	Result          longevity.Result `json:"result"`
	Memo            longevity.Result `json:"memo"`
	CapitalChart    Chart            `json:"capitalChart"`
	WithdrawalChart Chart            `json:"withdrawalChart"`
}

// Update recomputes the view for the given inputs. previous is the memo
// returned by the prior update in the same session, or nil.
func Update(conf *config.Configuration, in Inputs, previous *longevity.Result) View {
	rate := in.Rate()
	result := longevity.ComputeYears(in.Capital, in.Withdrawal, rate)

	capitalSeries, withdrawalSeries := Sweeps(conf, in)

	return View{
		Years:           format.Years(result),
		Delta:           format.Delta(previous, result),
		Result:          result,
		Memo:            result,
		CapitalChart:    NewChart(CapitalChartTitle, capitalSeries),
		WithdrawalChart: NewChart(WithdrawalChartTitle, withdrawalSeries),
	}
}

// Sweeps computes the capital and withdrawal series for the configured
// ranges around the given inputs.
func Sweeps(conf *config.Configuration, in Inputs) (sweep.Series, sweep.Series) {
	rate := in.Rate()
	return sweep.OverCapital(conf.Sweeps.Capital, in.Withdrawal, rate),
		sweep.OverWithdrawal(conf.Sweeps.Withdrawal, in.Capital, rate)
}

// NewChart converts a series into a chart dataset.
func NewChart(title string, series sweep.Series) Chart {
	points := make([]ChartPoint, 0, len(series.Points))
	for _, point := range series.Points {
		chartPoint := ChartPoint{X: point.X, State: point.Result.State.String()}
		if point.Result.IsFinite() {
			years := point.Result.Years
			chartPoint.Y = &years
		}
		points = append(points, chartPoint)
	}
	return Chart{
		Title:      title,
		XAxisTitle: series.Variable.AxisTitle(),
		YAxisTitle: YearsAxisTitle,
		Points:     points,
	}
}

// Option is one dropdown entry.
type Option struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Choice is a dropdown with its initial selection.
type Choice struct {
	Options []Option `json:"options"`
	Default float64  `json:"default"`
}

// RateInput describes the free-entry rate control.
type RateInput struct {
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// InputOptions describes the three input controls.
type InputOptions struct {
	Capital    Choice    `json:"capital"`
	Withdrawal Choice    `json:"withdrawal"`
	Rate       RateInput `json:"rate"`
}

// Options lists the dropdown entries and defaults from the configuration.
func Options(conf *config.Configuration) InputOptions {
	return InputOptions{
		Capital:    newChoice(conf.Inputs.Capital),
		Withdrawal: newChoice(conf.Inputs.Withdrawal),
		Rate: RateInput{
			Default: conf.Inputs.Rate.Default,
			Step:    conf.Inputs.Rate.Step,
		},
	}
}

// DefaultInputs returns the initial selection of every control.
func DefaultInputs(conf *config.Configuration) Inputs {
	return Inputs{
		Capital:     conf.Inputs.Capital.Default,
		Withdrawal:  conf.Inputs.Withdrawal.Default,
		RatePercent: conf.Inputs.Rate.Default,
	}
}

func newChoice(c config.ChoiceConfig) Choice {
	values := c.Range().Values()
	options := make([]Option, 0, len(values))
	for _, value := range values {
		options = append(options, Option{Label: format.WholeCurrency(value), Value: value})
	}
	return Choice{Options: options, Default: c.Default}
}
