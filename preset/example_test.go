package preset_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/preset"
)

func ExampleBuiltin() {
	for _, p := range preset.Builtin() {
		fmt.Printf("%-8s f0=%.2f formants=%.2f\n", p.Name, p.F0Ratio, p.Formants.F1)
	}
	// Output:
	// Original f0=1.00 formants=1.00
	// Cute 1   f0=1.20 formants=1.30
	// Cute 2   f0=1.15 formants=1.40
	// Anime    f0=1.30 formants=1.50
	// Robot    f0=1.00 formants=0.80
}
