package validation

import (
	"fmt"

	"github.com/iwvelando/capital-longevity/pkg/mathutil"
)

// ValidateNumber rejects values that cannot be carried through JSON or the calculator.
func ValidateNumber(name string, value float64) error {
	if !mathutil.IsFinite(value) {
		return fmt.Errorf("%s must be a finite number", name)
	}
	return nil
}

// InputWarnings explains inputs for which the longevity formula has no
// defined value. The calculation still runs; these are informational.
func InputWarnings(capital, withdrawal, ratePercent float64) []string {
	var warnings []string

	if capital <= 0 {
		warnings = append(warnings, fmt.Sprintf("Capital should be positive, got %.2f", capital))
	}
	if withdrawal == 0 {
		warnings = append(warnings, "Withdrawal is zero - years capital lasts is undefined")
	} else if withdrawal < 0 {
		warnings = append(warnings, fmt.Sprintf("Withdrawal should be positive, got %.2f", withdrawal))
	}
	if ratePercent == 0 {
		warnings = append(warnings, "Rate of return is zero - the formula is undefined at a zero rate")
	} else if ratePercent <= -100 {
		warnings = append(warnings, fmt.Sprintf("Rate of return of %.2f%% is at or below -100%% - years capital lasts is undefined", ratePercent))
	}

	return warnings
}
