package policy

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Weight files hold one floating-point value per line, in index order,
// followed by zero or more "FeatureSet=<filename>" lines naming the
// companion feature-set file(s).

// LoadLinearFunction reads a weight file. Failures are logged and surfaced
// as a nil function; the caller decides whether to abort or fall back.
func LoadLinearFunction(path string) (*LinearFunction, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to open weight file")
		return nil, fmt.Errorf("failed to open weight file: %w", err)
	}
	defer f.Close()

	var weights []float64
	var featureSetName string

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if name, ok := strings.CutPrefix(line, "FeatureSet="); ok {
			if featureSetName == "" {
				featureSetName = name
			}
			continue
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			log.Error().Err(err).Str("path", path).Int("line", lineNo).
				Msg("malformed weight line")
			return nil, fmt.Errorf("malformed weight on line %d: %w", lineNo, err)
		}
		weights = append(weights, value)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to read weight file")
		return nil, fmt.Errorf("failed to read weight file: %w", err)
	}

	return NewLinearFunction(weights, featureSetName), nil
}

// WriteToFile writes the function in the weight-file format.
func (l *LinearFunction) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create weight file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, weight := range l.weights {
		fmt.Fprintf(w, "%v\n", weight)
	}
	if l.featureSetName != "" {
		fmt.Fprintf(w, "FeatureSet=%s\n", l.featureSetName)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write weight file: %w", err)
	}
	return nil
}
