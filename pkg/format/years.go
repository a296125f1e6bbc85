package format

import (
	"fmt"

	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
)

// Years renders a longevity result: two decimals for a finite duration, the
// infinity symbol when capital is never depleted, and "nan" otherwise.
func Years(r longevity.Result) string {
	switch r.State {
	case longevity.Finite:
		return fmt.Sprintf("%.2f", r.Years)
	case longevity.Infinite:
		return constants.InfinitySymbol
	default:
		return constants.UndefinedDisplay
	}
}

// Delta renders the change from previous to current as "+0.53 years", or a
// placeholder when no comparison is available.
func Delta(previous *longevity.Result, current longevity.Result) string {
	delta, ok := longevity.Delta(previous, current)
	if !ok {
		return constants.NoComparison
	}
	return fmt.Sprintf("%+.2f years", delta)
}
