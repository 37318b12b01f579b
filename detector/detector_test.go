package detector

import (
	"errors"
	"math"
	"testing"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
)

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func TestFlux(t *testing.T) {
	b, err := spectrum.NewBinning(0, 6000)
	if err != nil {
		t.Fatal(err)
	}
	content := make([]float64, b.N)
	for i := range content {
		content[i] = 1
	}
	s, err := spectrum.New("flat", b, content, make([]float64, b.N))
	if err != nil {
		t.Fatal(err)
	}

	got, err := Flux(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := 4200 / (4 * math.Pi * 1e4); !relClose(got, want, 1e-12) {
		t.Fatalf("got %v, want %v", got, want)
	}

	far, err := Flux(s, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !relClose(far, got/100, 1e-12) {
		t.Fatalf("flux should fall off with the square of the distance: got %v, want %v", far, got/100)
	}

	if _, err := Flux(s, 0); !errors.Is(err, snfspectra.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestEventRate(t *testing.T) {
	lower, upper := VIDARR().EventRate(11992567783.00658)
	if want := 1.7843712822172811e-06; !relClose(lower, want, 1e-12) {
		t.Fatalf("lower: got %v, want %v", lower, want)
	}
	if want := 3.5687425644345623e-06; !relClose(upper, want, 1e-12) {
		t.Fatalf("upper: got %v, want %v", upper, want)
	}

	if got := PerDay(1); got != 86400 {
		t.Fatalf("got %v", got)
	}
}

func TestDetectionProbability(t *testing.T) {
	p, err := DetectionProbability(0.5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if want := 1 - math.Exp(-2.5); !relClose(p, want, 1e-9) {
		t.Fatalf("got %v, want %v", p, want)
	}

	p, err = ProbabilityAtLeast(1, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := 1 - math.Exp(-3)*4; !relClose(p, want, 1e-9) {
		t.Fatalf("got %v, want %v", p, want)
	}

	if p, _ := DetectionProbability(0, 100); p != 0 {
		t.Fatalf("no rate should never detect, got %v", p)
	}
	if _, err := DetectionProbability(-1, 1); !errors.Is(err, snfspectra.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestTimeToProbability(t *testing.T) {
	secs, err := TimeToProbability(0.5, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	p, err := DetectionProbability(0.5, secs)
	if err != nil {
		t.Fatal(err)
	}
	if !relClose(p, 0.9, 1e-9) {
		t.Fatalf("got %v, want 0.9", p)
	}

	if _, err := TimeToProbability(0.5, 1); !errors.Is(err, snfspectra.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}
