package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/drift/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir             string
	generationsFile *os.File

	headerWritten bool
}

// NewOutputManager creates an output manager rooted at dir. Returns nil if
// dir is empty (output disabled); a nil manager is safe to use.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}

	return &OutputManager{dir: dir, generationsFile: f}, nil
}

// WriteConfig saves the run configuration as YAML next to the CSV output.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeneration appends one stats record to generations.csv. The header
// is written with the first record only.
func (om *OutputManager) WriteGeneration(stats GenerationStats) error {
	if om == nil {
		return nil
	}

	records := []GenerationStats{stats}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.generationsFile); err != nil {
			return fmt.Errorf("writing generation stats: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.generationsFile); err != nil {
		return fmt.Errorf("writing generation stats: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.generationsFile.Close()
}
