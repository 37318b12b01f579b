package physics

import (
	"fmt"
	"math"

	"github.com/carbocation/snfspectra"
)

// DecayChain is a parent nuclide feeding a short-lived daughter.
type DecayChain struct {
	Parent         string  `json:"parent"`
	Daughter       string  `json:"daughter"`
	BranchingRatio float64 `json:"branching_ratio"`
}

// NewDecayChain returns a chain with a branching ratio of one.
func NewDecayChain(parent, daughter string) DecayChain {
	return DecayChain{Parent: parent, Daughter: daughter, BranchingRatio: 1}
}

// DefaultDecayChains are the secular-equilibrium pairs whose daughters carry
// most of the high-energy antineutrino flux from cooled fuel.
func DefaultDecayChains() []DecayChain {
	return []DecayChain{
		NewDecayChain("Sr90", "Y90"),
		NewDecayChain("Ce144", "Pr144"),
		NewDecayChain("Kr88", "Rb88"),
		NewDecayChain("Ru106", "Rh106"),
	}
}

func (c DecayChain) Validate() error {
	if c.Parent == "" || c.Daughter == "" {
		return fmt.Errorf("%w: decay chain needs both a parent and a daughter (%q -> %q)", snfspectra.ErrInvalidArgument, c.Parent, c.Daughter)
	}
	if c.Parent == c.Daughter {
		return fmt.Errorf("%w: %s cannot decay into itself", snfspectra.ErrDegenerateDecay, c.Parent)
	}
	if !(c.BranchingRatio > 0 && c.BranchingRatio <= 1) {
		return fmt.Errorf("%w: %s -> %s branching ratio must be in (0, 1], got %v", snfspectra.ErrInvalidArgument, c.Parent, c.Daughter, c.BranchingRatio)
	}
	return nil
}

func (c DecayChain) String() string {
	return fmt.Sprintf("%s -> %s (%g)", c.Parent, c.Daughter, c.BranchingRatio)
}

// DaughterMass returns the mass of daughter grown in from parentMass0 of a
// pure parent after elapsedYears, for daughters with the same mass number as
// the parent (beta decay). Equal half-lives are rejected with
// ErrDegenerateDecay.
func DaughterMass(elapsedYears, parentMass0, parentHalfLife, daughterHalfLife, branchingRatio float64) (float64, error) {
	if err := checkInputs(parentMass0, 1, parentHalfLife, elapsedYears); err != nil {
		return 0, err
	}
	if !finite(daughterHalfLife) || daughterHalfLife <= 0 {
		return 0, fmt.Errorf("%w: daughter half-life must be positive, got %v", snfspectra.ErrInvalidArgument, daughterHalfLife)
	}
	if !(branchingRatio > 0 && branchingRatio <= 1) {
		return 0, fmt.Errorf("%w: branching ratio must be in (0, 1], got %v", snfspectra.ErrInvalidArgument, branchingRatio)
	}
	if parentHalfLife == daughterHalfLife {
		return 0, fmt.Errorf("%w: parent and daughter share a half-life of %v years", snfspectra.ErrDegenerateDecay, parentHalfLife)
	}

	lp := DecayConstant(parentHalfLife)
	ld := DecayConstant(daughterHalfLife)

	m := branchingRatio * lp / (ld - lp) * parentMass0 * (math.Exp(-lp*elapsedYears) - math.Exp(-ld*elapsedYears))
	if !finite(m) {
		return 0, fmt.Errorf("%w: daughter mass is not finite (parent %v y, daughter %v y)", snfspectra.ErrDegenerateDecay, parentHalfLife, daughterHalfLife)
	}

	return m, nil
}
