package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Best is the persisted best run, ranked by length.
type Best struct {
	Length       int       `json:"length"`
	Kills        int       `json:"kills"`
	Score        float64   `json:"score"`
	SurvivalTime int       `json:"survival_time"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Offer replaces the record if length beats it. Returns true on a new best.
func (b *Best) Offer(length, kills int, score float64, survival int, at time.Time) bool {
	if length <= b.Length {
		return false
	}
	*b = Best{
		Length:       length,
		Kills:        kills,
		Score:        score,
		SurvivalTime: survival,
		RecordedAt:   at,
	}
	return true
}

// LoadBest reads the best record. A missing file is an empty record.
func LoadBest(path string) (Best, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Best{}, nil
	}
	if err != nil {
		return Best{}, fmt.Errorf("reading best score: %w", err)
	}

	var b Best
	if err := json.Unmarshal(data, &b); err != nil {
		return Best{}, fmt.Errorf("parsing best score: %w", err)
	}
	return b, nil
}

// SaveBest writes the best record, replacing the file atomically.
func SaveBest(path string, b Best) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling best score: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing best score: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing best score: %w", err)
	}
	return nil
}
