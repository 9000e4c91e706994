package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Steps  []StepRecord  `json:"steps"`
	Trails []TrailRecord `json:"trails,omitempty"`
}

// Export writes a stored run as one indented JSON document.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	steps, err := s.LoadSteps(runID)
	if err != nil {
		return err
	}
	trails, err := s.LoadTrails(runID)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Steps: steps, Trails: trails})
}
