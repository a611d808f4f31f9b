package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
)

// FactorSource supplies per-symbol factor scores for one scan cycle.
// A nil score means the factor has no data for that symbol.
type FactorSource interface {
	Factors(ctx context.Context, symbols []string) (map[string]map[string]*float64, error)
}

// FileFactorSource reads factor scores from a JSON file shaped as
// {"BTCUSDT": {"technical": 2.0, "onchain": null}}. The file is
// re-read on every cycle so an external analysis pipeline can update
// it while the bot runs. Factors absent from a symbol's object, or
// written as null, score as unavailable.
type FileFactorSource struct {
	path string

	mu   sync.Mutex
	last map[string]map[string]*float64
}

func NewFileFactorSource(path string) *FileFactorSource {
	return &FileFactorSource{path: path}
}

func (s *FileFactorSource) Factors(ctx context.Context, symbols []string) (map[string]map[string]*float64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		// Fall back to the last good read so a transient writer race
		// does not blank a whole cycle.
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.last != nil {
			return s.last, nil
		}
		return nil, fmt.Errorf("failed to read factor file %s: %w", s.path, err)
	}

	// Pointer values so a JSON null decodes as nil, which means
	// "no data for this factor", not a zero score.
	var raw map[string]map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse factor file %s: %w", s.path, err)
	}

	out := make(map[string]map[string]*float64, len(symbols))
	for _, symbol := range symbols {
		factors, ok := raw[symbol]
		if !ok {
			continue
		}
		inputs := make(map[string]*float64, len(factors))
		for name, value := range factors {
			inputs[name] = scoring.SanitizeScore(value)
		}
		out[symbol] = inputs
	}

	s.mu.Lock()
	s.last = out
	s.mu.Unlock()
	return out, nil
}

// StaticFactorSource serves a fixed score set. Used by the one-shot
// scanner and in tests.
type StaticFactorSource map[string]map[string]*float64

func (s StaticFactorSource) Factors(ctx context.Context, symbols []string) (map[string]map[string]*float64, error) {
	return s, nil
}
