package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
	contactsFile = "contacts.csv"
	trailsFile   = "trails.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                 string             `json:"id"`
	Category           string             `json:"category"`
	Session            string             `json:"session"`
	Timestamp          time.Time          `json:"timestamp"`
	Seed               int64              `json:"seed"`
	Hz                 float64            `json:"hz"`
	VelocityIterations int                `json:"velocity_iterations"`
	PositionIterations int                `json:"position_iterations"`
	Steps              int                `json:"steps"`
	Script             string             `json:"script,omitempty"`
	Metrics            map[string]float64 `json:"metrics"`
}

// StepRecord is one row of steps.csv.
type StepRecord struct {
	Step          int     `csv:"step"`
	Time          float64 `csv:"time"`
	Bodies        int     `csv:"bodies"`
	Joints        int     `csv:"joints"`
	Contacts      int     `csv:"contacts"`
	StepMs        float64 `csv:"step_ms"`
	CollideMs     float64 `csv:"collide_ms"`
	SolveMs       float64 `csv:"solve_ms"`
	KineticEnergy float64 `csv:"kinetic_energy"`
}

// ContactRecord is one row of contacts.csv.
type ContactRecord struct {
	Step           int     `csv:"step"`
	FixtureA       uint64  `csv:"fixture_a"`
	FixtureB       uint64  `csv:"fixture_b"`
	State          string  `csv:"state"`
	X              float64 `csv:"x"`
	Y              float64 `csv:"y"`
	NormalX        float64 `csv:"normal_x"`
	NormalY        float64 `csv:"normal_y"`
	NormalImpulse  float64 `csv:"normal_impulse"`
	TangentImpulse float64 `csv:"tangent_impulse"`
	Separation     float64 `csv:"separation"`
}

// TrailRecord is one point of a body trail in trails.csv.
type TrailRecord struct {
	Body  uint64  `csv:"body"`
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
}

func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func (s *Store) writeMetadata(meta RunMetadata) error {
	metaFile, err := os.Create(filepath.Join(s.runDir(meta.ID), metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns every run with readable metadata, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing %s metadata: %w", runID, err)
	}

	return &meta, nil
}

func loadCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if err == gocsv.ErrEmptyCSVFile {
			return []T{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func (s *Store) LoadSteps(runID string) ([]StepRecord, error) {
	return loadCSV[StepRecord](filepath.Join(s.runDir(runID), stepsFile))
}

func (s *Store) LoadContacts(runID string) ([]ContactRecord, error) {
	return loadCSV[ContactRecord](filepath.Join(s.runDir(runID), contactsFile))
}

func (s *Store) LoadTrails(runID string) ([]TrailRecord, error) {
	return loadCSV[TrailRecord](filepath.Join(s.runDir(runID), trailsFile))
}
