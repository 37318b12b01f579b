package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/cask"
	_ "github.com/carbocation/snfspectra/compileinfoprint"
	"github.com/carbocation/snfspectra/config"
	"github.com/carbocation/snfspectra/detector"
	"github.com/carbocation/snfspectra/output"
	"github.com/carbocation/snfspectra/plot"
	"github.com/carbocation/snfspectra/refdata"
	"github.com/carbocation/snfspectra/sample"
	"github.com/carbocation/snfspectra/spectrum"
)

// Removal times (years) of the cask groups stored at each site when no
// manifest or -removal list is given.
var defaultRemovalTimes = map[string][]float64{
	"sizewell":   {0.5, 5, 10, 20},
	"hartlepool": {3, 7, 15, 19},
}

type options struct {
	manifest        string
	asOf            string
	reactor         string
	mass            float64
	casksPerRemoval int
	removals        string
	cooling         string
	samples         int
	histBins        int
}

func main() {
	var o options

	fs := flag.CommandLine
	fs.StringVar(&o.manifest, "manifest", "", "Optional delimited cask manifest with columns name, reactor, mass_kg, removal_years, discharge_date, count. If unset, casks are generated from -reactor.")
	fs.StringVar(&o.asOf, "as-of", "", "Date that manifest discharge dates are measured up to. Defaults to today.")
	fs.StringVar(&o.reactor, "reactor", "sizewell", "Reactor whose fuel fills the generated casks.")
	fs.Float64Var(&o.mass, "mass", 10000, "Mass of fuel in each generated cask (kg).")
	fs.IntVar(&o.casksPerRemoval, "casks-per-removal", 10, "Number of generated casks at each removal time.")
	fs.StringVar(&o.removals, "removal", "", "Comma separated removal times (years) for generated casks. Defaults depend on -reactor.")
	fs.StringVar(&o.cooling, "cooling", "0,1,5,10,20", "Comma separated extra cooling times (years) for the evolution plot.")
	fs.IntVar(&o.samples, "samples", 1000000, "Number of energies to sample from the combined spectrum. 0 disables sampling.")
	fs.IntVar(&o.histBins, "hist-bins", 60, "Number of bars in the terminal histogram of the samples.")

	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		fs.PrintDefaults()
		log.Fatalln(err)
	}

	if err := run(cfg, o); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg config.Config, o options) error {
	store, err := cfg.Store()
	if err != nil {
		return err
	}
	log.Printf("Reading reference data from %s\n", store.Dir())
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	casks, err := loadCasks(store, o)
	if err != nil {
		return err
	}

	label := o.reactor
	if o.manifest != "" {
		label = strings.TrimSuffix(filepath.Base(o.manifest), filepath.Ext(o.manifest))
	}
	title := capitalize(label)

	var db *output.SQLite
	if cfg.SQLitePath != "" {
		if db, err = output.OpenSQLite(cfg.SQLitePath); err != nil {
			return err
		}
		defer db.Close()
	}

	// 1) All casks combined
	log.Printf("Generating spectra for %d casks...\n", len(casks))
	multiple, err := cask.Total(store, casks, opts, cfg.Concurrency)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Writing multiple cask spectrum data to CSV...")
	path, err := output.WriteSpectrumFile(filepath.Join(cfg.OutDir, label+"_multiple"), multiple)
	if err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", path)

	fmt.Println()
	fmt.Printf("Multiple cask flux at %g m for %s:\n", cfg.Distance, title)
	rep, err := detector.NewReport(multiple, detector.VIDARR(), cfg.Distance)
	if err != nil {
		return err
	}
	rep.Fprint(os.Stdout)
	fmt.Println(spectrum.Summarize(multiple))

	if db != nil {
		if err := db.SaveSpectrum(label+"_multiple", multiple); err != nil {
			return err
		}
	}

	// 2) Evolution with extra cooling time
	coolingTimes, err := config.ParseFloats(o.cooling)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Generating multiple cask spectra for different cooling times...")
	evolved, err := cask.Evolve(store, casks, coolingTimes, opts, cfg.Concurrency)
	if err != nil {
		return err
	}

	series := make([]plot.Series, 0, len(evolved))
	for i, s := range evolved {
		fmt.Println()
		fmt.Printf("Multiple cask flux at %g m for %s after %g years:\n", cfg.Distance, title, coolingTimes[i])
		rep, err := detector.NewReport(s, detector.VIDARR(), cfg.Distance)
		if err != nil {
			return err
		}
		rep.Fprint(os.Stdout)

		series = append(series, plot.Series{Label: fmt.Sprintf("Spectrum after %g years", coolingTimes[i]), Spectrum: s})

		if db != nil {
			if err := db.SaveSpectrum(fmt.Sprintf("%s_cooled_%g", label, coolingTimes[i]), s); err != nil {
				return err
			}
		}
	}

	png := filepath.Join(cfg.OutDir, title+"_MultipleCasks.png")
	if err := plot.SpectraFile(png, title+" casks after further cooling", series); err != nil {
		return err
	}
	fmt.Printf("Saved plot to %s\n", png)

	// 3) Samples from the combined spectrum
	if o.samples <= 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Sampling multiple cask spectrum...")
	samples, err := sample.Spectrum(multiple, o.samples, cfg.Seed)
	if err != nil {
		return err
	}

	path, err = output.WriteSamplesFile(filepath.Join(cfg.OutDir, title+"_sampled_spectrum"), samples)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d samples to %s\n", len(samples), path)

	summary, err := sample.Summarize(samples)
	if err != nil {
		return err
	}
	fmt.Println(summary)

	counts, err := sample.Histogram(samples, multiple.Binning())
	if err != nil {
		return err
	}
	fmt.Printf("Sampled fraction above the IBD threshold: %.4f (spectrum: %.4f)\n",
		fractionAbove(counts, multiple.Binning(), detector.IBDThreshold),
		multiple.Integral(detector.IBDThreshold, multiple.Binning().Max())/multiple.Total())

	return plot.Terminal(os.Stdout, samples, o.histBins, 60)
}

func loadCasks(store *refdata.Store, o options) ([]cask.Cask, error) {
	if o.manifest != "" {
		return casksFromManifest(store, o)
	}

	removalTimes, exists := defaultRemovalTimes[o.reactor]
	if o.removals != "" {
		var err error
		if removalTimes, err = config.ParseFloats(o.removals); err != nil {
			return nil, err
		}
	} else if !exists {
		return nil, fmt.Errorf("%w: no default removal times for %s; pass -removal", snfspectra.ErrInvalidArgument, o.reactor)
	}
	if o.casksPerRemoval < 1 {
		return nil, fmt.Errorf("%w: -casks-per-removal must be at least 1", snfspectra.ErrInvalidArgument)
	}

	comp, err := store.Reactor(o.reactor)
	if err != nil {
		return nil, err
	}

	// Casks with the same history are simulated as one heavier cask.
	mass := o.mass * float64(o.casksPerRemoval)

	casks := make([]cask.Cask, 0, len(removalTimes))
	for _, rt := range removalTimes {
		casks = append(casks, cask.Cask{
			Name:        fmt.Sprintf("%s_cask_%g_%g", o.reactor, mass, rt),
			Reactor:     o.reactor,
			Composition: cask.Composition(comp),
			Mass:        mass,
			RemovalTime: rt,
		})
	}

	return casks, nil
}

func casksFromManifest(store *refdata.Store, o options) ([]cask.Cask, error) {
	asOf := time.Now()
	if o.asOf != "" {
		var err error
		if asOf, err = dateparse.ParseAny(o.asOf); err != nil {
			return nil, fmt.Errorf("%w: -as-of %q: %v", snfspectra.ErrInvalidArgument, o.asOf, err)
		}
	}

	f, err := snfspectra.OpenMaybeCompressed(o.manifest)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := cask.ReadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.manifest, err)
	}

	return cask.CasksFromManifest(entries, store, asOf)
}

func fractionAbove(counts []int, b spectrum.Binning, threshold float64) float64 {
	var above, total int
	for i, c := range counts {
		total += c
		if b.Center(i) >= threshold {
			above += c
		}
	}
	if total == 0 {
		return 0
	}
	return float64(above) / float64(total)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
