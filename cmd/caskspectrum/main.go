package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/snfspectra/cask"
	_ "github.com/carbocation/snfspectra/compileinfoprint"
	"github.com/carbocation/snfspectra/config"
	"github.com/carbocation/snfspectra/detector"
	"github.com/carbocation/snfspectra/output"
	"github.com/carbocation/snfspectra/plot"
	"github.com/carbocation/snfspectra/spectrum"
)

func main() {
	var (
		reactor  string
		mass     float64
		removals string
		report   float64
	)

	fs := flag.CommandLine
	fs.StringVar(&reactor, "reactor", "sizewell", "Reactor whose fuel composition fills the cask.")
	fs.Float64Var(&mass, "mass", 10000, "Mass of fuel in the cask (kg).")
	fs.StringVar(&removals, "removal", "0,0.5,1,5,10,20", "Comma separated years since removal from the core.")
	fs.Float64Var(&report, "report", 0.5, "Removal time whose spectrum is reported and written to CSV. Must be one of -removal.")

	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		fs.PrintDefaults()
		log.Fatalln(err)
	}

	removalTimes, err := config.ParseFloats(removals)
	if err != nil {
		log.Fatalln(err)
	}

	if err := run(cfg, reactor, mass, removalTimes, report); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg config.Config, reactor string, mass float64, removalTimes []float64, report float64) error {
	store, err := cfg.Store()
	if err != nil {
		return err
	}
	log.Printf("Reading reference data from %s\n", store.Dir())
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	comp, err := store.Reactor(reactor)
	if err != nil {
		return err
	}

	reportIdx := -1
	casks := make([]cask.Cask, 0, len(removalTimes))
	for i, rt := range removalTimes {
		if rt == report {
			reportIdx = i
		}
		casks = append(casks, cask.Cask{
			Name:        fmt.Sprintf("%s_cask_%g_%g", reactor, mass, rt),
			Reactor:     reactor,
			Composition: cask.Composition(comp),
			Mass:        mass,
			RemovalTime: rt,
		})
	}
	if reportIdx < 0 {
		return fmt.Errorf("report time %g is not one of the removal times %v", report, removalTimes)
	}

	log.Println("Generating single cask spectra at different cooling times...")
	spectra, err := cask.BuildAll(store, casks, opts, cfg.Concurrency)
	if err != nil {
		return err
	}

	title := capitalize(reactor)
	single := spectra[reportIdx]

	fmt.Println()
	fmt.Printf("Single cask flux at %g m for %s after %g years:\n", cfg.Distance, title, report)
	rep, err := detector.NewReport(single, detector.VIDARR(), cfg.Distance)
	if err != nil {
		return err
	}
	rep.Fprint(os.Stdout)

	fmt.Println(spectrum.Summarize(single))

	fmt.Println()
	fmt.Println("Writing single cask spectrum data to CSV...")
	path, err := output.WriteSpectrumFile(filepath.Join(cfg.OutDir, reactor+"_single"), single)
	if err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", path)

	series := make([]plot.Series, 0, len(spectra))
	for i, s := range spectra {
		series = append(series, plot.Series{
			Label:    fmt.Sprintf("%g years since removal from core", removalTimes[i]),
			Spectrum: s,
		})
	}
	png := filepath.Join(cfg.OutDir, title+"_single.png")
	if err := plot.SpectraFile(png, title+" single cask", series); err != nil {
		return err
	}
	fmt.Printf("Saved plot to %s\n", png)

	if cfg.SQLitePath == "" {
		return nil
	}

	db, err := output.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, s := range spectra {
		if err := db.SaveSpectrum(s.Name(), s); err != nil {
			return err
		}
	}
	fmt.Printf("Saved %d spectra to %s\n", len(spectra), cfg.SQLitePath)

	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
