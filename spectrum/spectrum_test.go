package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/carbocation/snfspectra"
)

const tol = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func checkSlice(t *testing.T, label string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d values, want %d", label, len(got), len(want))
	}
	for i := range got {
		if !approx(got[i], want[i]) {
			t.Fatalf("%s[%d]: got %v, want %v", label, i, got[i], want[i])
		}
	}
}

func mockTable(t *testing.T) Table {
	t.Helper()
	tab, err := NewTable("mock",
		[]float64{0, 0.5, 1, 1.5, 2, 2.5, 3},
		[]float64{10, 20, 30, 40, 50, 60, 70},
		[]float64{1, 2, 3, 4, 5, 6, 7},
	)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestNewTableTrimsTrailingValue(t *testing.T) {
	tab := mockTable(t)
	if tab.Len() != 6 {
		t.Fatalf("got %d bins, want 6", tab.Len())
	}
	checkSlice(t, "centers", tab.Centers(), []float64{0.25, 0.75, 1.25, 1.75, 2.25, 2.75})
	checkSlice(t, "content", tab.Content(), []float64{10, 20, 30, 40, 50, 60})
	if tab.MaxEnergy() != 3 {
		t.Fatalf("got max energy %v", tab.MaxEnergy())
	}
}

func TestNewTableRejectsBadInput(t *testing.T) {
	cases := []struct {
		name       string
		e, dn, unc []float64
	}{
		{"one edge", []float64{0}, []float64{1}, []float64{1}},
		{"short content", []float64{0, 1, 2}, []float64{1}, []float64{1, 1}},
		{"decreasing", []float64{0, 2, 1}, []float64{1, 1}, []float64{1, 1}},
		{"nan", []float64{0, 1}, []float64{math.NaN()}, []float64{1}},
	}
	for _, c := range cases {
		_, err := NewTable(c.name, c.e, c.dn, c.unc)
		if !errors.Is(err, snfspectra.ErrInvalidArgument) {
			t.Fatalf("%s: got %v, want ErrInvalidArgument", c.name, err)
		}
	}
}

func TestEqualizeMock(t *testing.T) {
	s, err := Equalize(mockTable(t), 0, 3)
	if err != nil {
		t.Fatal(err)
	}

	checkSlice(t, "centers", s.Centers(), []float64{0.5, 1.5, 2.5})
	checkSlice(t, "content", s.Content(), []float64{15, 35, 55})
	checkSlice(t, "errors", s.Errors(), []float64{
		math.Sqrt(0.25*1 + 0.25*4),
		math.Sqrt(0.25*9 + 0.25*16),
		math.Sqrt(0.25*25 + 0.25*36),
	})

	if s.Name() != "mock" {
		t.Fatalf("got name %q", s.Name())
	}
}

func TestEqualizeExtrapolatesFlat(t *testing.T) {
	tab, err := NewTable("wide", []float64{0, 2, 4, 6}, []float64{10, 20, 30, 40}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}

	s, err := Equalize(tab, -1, 7)
	if err != nil {
		t.Fatal(err)
	}

	checkSlice(t, "content", s.Content(), []float64{10, 10, 12.5, 17.5, 22.5, 27.5, 30, 30})

	w := func(lo, hi, elo, ehi float64) float64 {
		return math.Sqrt(lo*lo*elo*elo + hi*hi*ehi*ehi)
	}
	checkSlice(t, "errors", s.Errors(), []float64{
		1, 1,
		w(0.75, 0.25, 1, 2),
		w(0.25, 0.75, 1, 2),
		w(0.75, 0.25, 2, 3),
		w(0.25, 0.75, 2, 3),
		3, 3,
	})
}

func TestEqualizeExactCenter(t *testing.T) {
	tab, err := NewTable("exact", []float64{0, 1, 2}, []float64{4, 8}, []float64{0.5, 1})
	if err != nil {
		t.Fatal(err)
	}
	s, err := EqualizeTo(tab, Binning{Min: 0, Width: 1, N: 2})
	if err != nil {
		t.Fatal(err)
	}
	checkSlice(t, "content", s.Content(), []float64{4, 8})
	checkSlice(t, "errors", s.Errors(), []float64{0.5, 1})
}

func TestEqualizeSingleBin(t *testing.T) {
	tab, err := NewTable("single", []float64{1, 3}, []float64{5}, []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	s, err := Equalize(tab, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	checkSlice(t, "content", s.Content(), []float64{5, 5, 5, 5})
	checkSlice(t, "errors", s.Errors(), []float64{0.5, 0.5, 0.5, 0.5})
}

func TestEqualizeBadRange(t *testing.T) {
	if _, err := Equalize(mockTable(t), 5, 5); !errors.Is(err, snfspectra.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
	if _, err := EqualizeTo(Table{}, Binning{Min: 0, Width: 1, N: 3}); !errors.Is(err, snfspectra.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestScale(t *testing.T) {
	s, err := Equalize(mockTable(t), 0, 3)
	if err != nil {
		t.Fatal(err)
	}

	scaled := Scale(s, 2)
	checkSlice(t, "content", scaled.Content(), []float64{30, 70, 110})
	for i := 0; i < s.Len(); i++ {
		_, e := s.At(i)
		_, se := scaled.At(i)
		if !approx(se, 2*e) {
			t.Fatalf("bin %d: got error %v, want %v", i, se, 2*e)
		}
	}

	// The input is untouched.
	checkSlice(t, "original", s.Content(), []float64{15, 35, 55})
}

func TestCombine(t *testing.T) {
	s1, err := Equalize(mockTable(t), 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	s2 := Scale(s1, 2)

	sum, err := Combine(s1, s2)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Name() != "combined" {
		t.Fatalf("got name %q", sum.Name())
	}

	for i := 0; i < s1.Len(); i++ {
		c, e := s1.At(i)
		gc, ge := sum.At(i)
		if !approx(gc, 3*c) {
			t.Fatalf("bin %d: got content %v, want %v", i, gc, 3*c)
		}
		if !approx(ge, math.Sqrt(5)*e) {
			t.Fatalf("bin %d: got error %v, want %v", i, ge, math.Sqrt(5)*e)
		}
	}
}

func TestCombineThree(t *testing.T) {
	b := Binning{Min: 0, Width: 1, N: 3}
	a, err := New("a", b, []float64{1, 2, 3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	c, err := New("c", b, []float64{10, 0, 5}, []float64{2, 0, 4})
	if err != nil {
		t.Fatal(err)
	}
	d, err := New("d", b, []float64{0.5, 0.5, 0.5}, []float64{2, 1, 12})
	if err != nil {
		t.Fatal(err)
	}

	sum, err := Combine(a, c, d)
	if err != nil {
		t.Fatal(err)
	}
	checkSlice(t, "content", sum.Content(), []float64{11.5, 2.5, 8.5})
	checkSlice(t, "errors", sum.Errors(), []float64{3, math.Sqrt(5), 13})

	// Inputs are left as they were.
	checkSlice(t, "a content", a.Content(), []float64{1, 2, 3})
	checkSlice(t, "a errors", a.Errors(), []float64{1, 2, 3})
	checkSlice(t, "c content", c.Content(), []float64{10, 0, 5})
	checkSlice(t, "d errors", d.Errors(), []float64{2, 1, 12})
}

func TestCombineSingle(t *testing.T) {
	a, err := New("a", Binning{Min: 0, Width: 1, N: 3}, []float64{1, 2, 3}, []float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Combine(a)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Binning().Equal(a.Binning()) {
		t.Fatalf("got binning %s", got.Binning())
	}
	checkSlice(t, "content", got.Content(), a.Content())
	checkSlice(t, "errors", got.Errors(), a.Errors())

	// The result does not share storage with its input.
	got.content[0] = 100
	if c, _ := a.At(0); c != 1 {
		t.Fatalf("input changed to %v", c)
	}
}

func TestCombineErrors(t *testing.T) {
	if _, err := Combine(); !errors.Is(err, snfspectra.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}

	a := Zero("a", Binning{Min: 0, Width: 1, N: 3})
	b := Zero("b", Binning{Min: 0, Width: 1, N: 4})
	if _, err := Combine(a, b); !errors.Is(err, snfspectra.ErrBinningMismatch) {
		t.Fatalf("got %v, want ErrBinningMismatch", err)
	}
}

func TestIntegral(t *testing.T) {
	s, err := New("flat", Binning{Min: 0, Width: 1, N: 10}, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, make([]float64, 10))
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Integral(2, 10); got != 8 {
		t.Fatalf("got %v, want 8", got)
	}
	if got := s.Integral(0, 100); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
	if got := s.Total(); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
}

func TestIntegralError(t *testing.T) {
	s, err := New("errs", Binning{Min: 0, Width: 1, N: 4}, make([]float64, 4), []float64{3, 4, 12, 100})
	if err != nil {
		t.Fatal(err)
	}

	if got := s.IntegralError(0, 3); !approx(got, 13) {
		t.Fatalf("got %v, want 13", got)
	}
	if got := s.IntegralError(1, 2); !approx(got, 4) {
		t.Fatalf("got %v, want 4", got)
	}
	if got := s.IntegralError(10, 20); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestBinning(t *testing.T) {
	b, err := NewBinning(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	checkSlice(t, "edges", b.Edges(), []float64{0, 1, 2, 3, 4})
	checkSlice(t, "centers", b.Centers(), []float64{0.5, 1.5, 2.5, 3.5})

	for _, c := range []struct {
		e    float64
		want int
	}{{-0.1, -1}, {0, 0}, {3.99, 3}, {4, -1}} {
		if got := b.Index(c.e); got != c.want {
			t.Fatalf("Index(%v): got %d, want %d", c.e, got, c.want)
		}
	}

	single := Binning{Min: 10, Width: 2, N: 1}
	checkSlice(t, "single centers", single.Centers(), []float64{11})
}

func TestSummarize(t *testing.T) {
	s, err := New("two", Binning{Min: 0, Width: 1, N: 4}, []float64{0, 1, 0, 1}, make([]float64, 4))
	if err != nil {
		t.Fatal(err)
	}

	sum := Summarize(s)
	if sum.Total != 2 {
		t.Fatalf("got total %v", sum.Total)
	}
	if !approx(sum.MeanEnergy, 2.5) {
		t.Fatalf("got mean %v", sum.MeanEnergy)
	}
	if !approx(sum.StdDevEnergy, 1) {
		t.Fatalf("got sd %v", sum.StdDevEnergy)
	}
	if sum.PeakEnergy != 1.5 {
		t.Fatalf("got peak %v", sum.PeakEnergy)
	}

	empty := Summarize(Zero("empty", Binning{Min: 0, Width: 1, N: 3}))
	if empty.MeanEnergy != 0 || empty.StdDevEnergy != 0 {
		t.Fatalf("expected zero moments, got %+v", empty)
	}
}
