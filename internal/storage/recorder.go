package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/session"
)

// Recorder writes one run to disk while it is being stepped. Step and
// contact rows are appended as they are produced; trails and metadata are
// written by Finish.
type Recorder struct {
	store *Store
	meta  RunMetadata

	stepsFile    *os.File
	contactsFile *os.File

	stepsHeaderWritten    bool
	contactsHeaderWritten bool

	recordContacts bool
	elapsed        float64
	steps          int
}

// Begin creates the run directory and opens its CSV files. Contact samples
// are only written when contacts is true.
func (s *Store) Begin(meta RunMetadata, contacts bool) (*Recorder, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Session, meta.Timestamp.UnixNano())
	}
	dir := s.runDir(meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	r := &Recorder{store: s, meta: meta, recordContacts: contacts}

	f, err := os.Create(filepath.Join(dir, stepsFile))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", stepsFile, err)
	}
	r.stepsFile = f

	if contacts {
		f, err = os.Create(filepath.Join(dir, contactsFile))
		if err != nil {
			r.stepsFile.Close()
			return nil, fmt.Errorf("creating %s: %w", contactsFile, err)
		}
		r.contactsFile = f
	}

	return r, nil
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) Dir() string { return r.store.runDir(r.meta.ID) }

func (r *Recorder) Steps() int { return r.steps }

// RecordStep appends the state of s after a step of dt seconds.
func (r *Recorder) RecordStep(s *session.Session, dt float64) error {
	r.steps++
	r.elapsed += dt

	w := s.World()
	p := w.Profile()
	rec := StepRecord{
		Step:          r.steps,
		Time:          r.elapsed,
		Bodies:        len(w.Bodies()),
		Joints:        len(w.Joints()),
		Contacts:      len(s.ContactPoints()),
		StepMs:        p.Step,
		CollideMs:     p.Collide,
		SolveMs:       p.Solve,
		KineticEnergy: metrics.KineticEnergy(w),
	}
	if err := writeRows(r.stepsFile, []StepRecord{rec}, &r.stepsHeaderWritten); err != nil {
		return fmt.Errorf("writing steps: %w", err)
	}

	if !r.recordContacts || len(s.ContactPoints()) == 0 {
		return nil
	}
	rows := make([]ContactRecord, 0, len(s.ContactPoints()))
	for _, cp := range s.ContactPoints() {
		rows = append(rows, ContactRecord{
			Step:           r.steps,
			FixtureA:       uint64(cp.FixtureA),
			FixtureB:       uint64(cp.FixtureB),
			State:          cp.State.String(),
			X:              cp.Position.X,
			Y:              cp.Position.Y,
			NormalX:        cp.Normal.X,
			NormalY:        cp.Normal.Y,
			NormalImpulse:  cp.NormalImpulse,
			TangentImpulse: cp.TangentImpulse,
			Separation:     cp.Separation,
		})
	}
	if err := writeRows(r.contactsFile, rows, &r.contactsHeaderWritten); err != nil {
		return fmt.Errorf("writing contacts: %w", err)
	}
	return nil
}

// writeRows writes the header only on the first call for a file.
func writeRows[T any](f *os.File, rows []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

// Finish writes the trails of s and the run metadata, then closes the run.
func (r *Recorder) Finish(s *session.Session, values map[string]float64) (*RunMetadata, error) {
	defer r.Close()

	var trails []TrailRecord
	for _, id := range s.TrailBodies() {
		path, _ := s.TrailPath(id)
		for i, p := range path {
			trails = append(trails, TrailRecord{Body: uint64(id), Index: i, X: p.X, Y: p.Y})
		}
	}
	if len(trails) > 0 {
		f, err := os.Create(filepath.Join(r.Dir(), trailsFile))
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", trailsFile, err)
		}
		defer f.Close()
		if err := gocsv.Marshal(trails, f); err != nil {
			return nil, fmt.Errorf("writing trails: %w", err)
		}
	}

	r.meta.Steps = r.steps
	r.meta.Metrics = values
	if r.meta.Metrics == nil {
		r.meta.Metrics = map[string]float64{}
	}
	if err := r.store.writeMetadata(r.meta); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}
	meta := r.meta
	return &meta, nil
}

func (r *Recorder) Close() error {
	var firstErr error
	if r.stepsFile != nil {
		firstErr = r.stepsFile.Close()
		r.stepsFile = nil
	}
	if r.contactsFile != nil {
		if err := r.contactsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.contactsFile = nil
	}
	return firstErr
}
