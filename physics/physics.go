package physics

import (
	"fmt"
	"math"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
)

// Avogadro is the number of atoms in one mole.
const Avogadro = 6.022e23

// Internal units: masses in kg, times in seconds. A year is 365 days.
const (
	kg     = 1
	g      = 1e-3 * kg
	second = 1
	year   = 365 * 24 * 60 * 60 * second
)

// Atoms returns the number of atoms in massKg of a nuclide with the given
// molar mass in g/mol.
func Atoms(massKg, molarMass float64) float64 {
	return massKg / g / molarMass * Avogadro
}

// DecayConstant returns ln2/halfLife in inverse years.
func DecayConstant(halfLifeYears float64) float64 {
	return math.Ln2 / halfLifeYears
}

// Activity returns the activity in Bq of massKg of a nuclide after
// elapsedYears of decay.
func Activity(massKg, molarMass, halfLifeYears, elapsedYears float64) (float64, error) {
	if err := checkInputs(massKg, molarMass, halfLifeYears, elapsedYears); err != nil {
		return 0, err
	}

	lambdaPerSecond := math.Ln2 / (halfLifeYears * year)
	initial := Atoms(massKg, molarMass) * lambdaPerSecond

	return initial * math.Exp(-DecayConstant(halfLifeYears)*elapsedYears), nil
}

// ScaleSpectrum multiplies a unit spectrum by the activity of massKg of the
// nuclide after elapsedYears.
func ScaleSpectrum(s spectrum.Spectrum, massKg, molarMass, halfLifeYears, elapsedYears float64) (spectrum.Spectrum, error) {
	a, err := Activity(massKg, molarMass, halfLifeYears, elapsedYears)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("%s: %w", s.Name(), err)
	}

	return spectrum.Scale(s, a), nil
}

func checkInputs(massKg, molarMass, halfLifeYears, elapsedYears float64) error {
	switch {
	case !finite(massKg) || massKg < 0:
		return fmt.Errorf("%w: mass must be a non-negative number of kg, got %v", snfspectra.ErrInvalidArgument, massKg)
	case !finite(molarMass) || molarMass <= 0:
		return fmt.Errorf("%w: molar mass must be positive, got %v", snfspectra.ErrInvalidArgument, molarMass)
	case !finite(halfLifeYears) || halfLifeYears <= 0:
		return fmt.Errorf("%w: half-life must be positive, got %v", snfspectra.ErrInvalidArgument, halfLifeYears)
	case !finite(elapsedYears) || elapsedYears < 0:
		return fmt.Errorf("%w: elapsed time must be non-negative, got %v", snfspectra.ErrInvalidArgument, elapsedYears)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
