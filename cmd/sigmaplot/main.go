// sigmaplot renders Six Sigma process charts headlessly, without the HTTP
// server: processes come from positional tests:fails[:name] arguments or a
// JSON file, and the composite chart plus the metadata records are written
// under the output directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sigmaforge/SixSigmaCharter/src/engine"
	"github.com/sigmaforge/SixSigmaCharter/src/logging"
	"github.com/sigmaforge/SixSigmaCharter/src/sixsigma"
)

// parseSpec parses one tests:fails[:name] argument.
func parseSpec(arg string) (sixsigma.Process, error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) < 2 {
		return sixsigma.Process{}, fmt.Errorf("want tests:fails[:name], got %q", arg)
	}
	tests, err := strconv.Atoi(parts[0])
	if err != nil {
		return sixsigma.Process{}, fmt.Errorf("tests in %q: %w", arg, err)
	}
	fails, err := strconv.Atoi(parts[1])
	if err != nil {
		return sixsigma.Process{}, fmt.Errorf("fails in %q: %w", arg, err)
	}
	p := sixsigma.Process{Tests: tests, Fails: fails}
	if len(parts) == 3 {
		p.Name = parts[2]
	}
	return p, nil
}

// loadSpecs reads a JSON array of {tests, fails, name} objects.
func loadSpecs(path string) ([]sixsigma.Process, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs []sixsigma.Process
	if err := json.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return specs, nil
}

func main() {
	specFile := flag.String("spec", "", "Path to a JSON array of {tests, fails, name} objects (alternative to positional args)")
	outDir := flag.String("out", ".", "Output directory for chart.png and records.json")
	maxBatch := flag.Int("max-batch", engine.DefaultMaxBatch, "Maximum number of processes rendered; extra input is dropped")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	logging.SetLevel(*logLevel)

	var specs []sixsigma.Process
	var err error
	if *specFile != "" {
		specs, err = loadSpecs(*specFile)
		if err != nil {
			logging.Errorf("load specs: %v", err)
			os.Exit(1)
		}
	} else {
		for _, arg := range flag.Args() {
			p, perr := parseSpec(arg)
			if perr != nil {
				logging.Errorf("argument: %v", perr)
				os.Exit(1)
			}
			specs = append(specs, p)
		}
	}
	if len(specs) == 0 {
		logging.Errorf("no processes given; pass tests:fails[:name] arguments or -spec file")
		os.Exit(1)
	}
	if len(specs) > *maxBatch {
		logging.Warnf("truncating %d processes to the first %d", len(specs), *maxBatch)
	}

	eng := engine.New(engine.Config{MaxBatch: *maxBatch})
	res, err := eng.Run(specs)
	if err != nil {
		logging.Errorf("render: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logging.Errorf("create out dir: %v", err)
		os.Exit(1)
	}
	chartPath := filepath.Join(*outDir, "chart.png")
	if err := os.WriteFile(chartPath, res.PNG, 0o644); err != nil {
		logging.Errorf("write %s: %v", chartPath, err)
		os.Exit(1)
	}
	records, err := json.MarshalIndent(res.Records, "", "  ")
	if err != nil {
		logging.Errorf("marshal records: %v", err)
		os.Exit(1)
	}
	recordsPath := filepath.Join(*outDir, "records.json")
	if err := os.WriteFile(recordsPath, append(records, '\n'), 0o644); err != nil {
		logging.Errorf("write %s: %v", recordsPath, err)
		os.Exit(1)
	}
	logging.Infof("wrote %s and %s (%d process(es))", chartPath, recordsPath, len(res.Records))
}
