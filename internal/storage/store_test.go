package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/physics/physicstest"
	"github.com/san-kum/physbox/internal/session"
)

func runSession(t *testing.T, st *Store, steps int, contacts bool) (*RunMetadata, *physicstest.World) {
	t.Helper()
	world := physicstest.NewWorld(physics.V(0, -10))
	cfg := session.DefaultConfig()
	cfg.TrailsEnabled = true
	cfg.TrailLength = 3
	sess, err := session.New(world, nil, cfg)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer sess.Close()
	world.CreateBody(physics.BodyDef{Type: physics.DynamicBody, Position: physics.V(0, 10)})

	rec, err := st.Begin(RunMetadata{Category: "test", Session: "drop", Seed: 42, Hz: 60}, contacts)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	settings := session.DefaultSettings()
	for i := 0; i < steps; i++ {
		if i == 0 {
			world.QueueContact(physics.Contact{
				FixtureA: 1, FixtureB: 2,
				Manifold: physics.Manifold{Normal: physics.V(0, 1), Points: []physics.ManifoldPoint{{ID: 1, Position: physics.V(0.5, 0)}}},
			}, physics.Manifold{})
		}
		sess.Step(&settings)
		if err := rec.RecordStep(sess, 1/settings.Hz); err != nil {
			t.Fatalf("record step: %v", err)
		}
	}
	meta, err := rec.Finish(sess, map[string]float64{"energy": 1.5})
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	return meta, world
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	saved, _ := runSession(t, st, 5, true)
	if saved.ID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(saved.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Session != "drop" || meta.Seed != 42 || meta.Steps != 5 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	steps, err := st.LoadSteps(saved.ID)
	if err != nil {
		t.Fatalf("load steps failed: %v", err)
	}
	if len(steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(steps))
	}
	if steps[0].Step != 1 || steps[0].Contacts != 1 || steps[1].Contacts != 0 {
		t.Errorf("unexpected step rows %+v %+v", steps[0], steps[1])
	}
	if steps[0].Bodies != 2 || steps[4].KineticEnergy <= steps[0].KineticEnergy {
		t.Errorf("unexpected body data %+v %+v", steps[0], steps[4])
	}

	contacts, err := st.LoadContacts(saved.ID)
	if err != nil {
		t.Fatalf("load contacts failed: %v", err)
	}
	if len(contacts) != 1 || contacts[0].State != "add" || contacts[0].X != 0.5 || contacts[0].NormalY != 1 {
		t.Errorf("unexpected contacts %+v", contacts)
	}

	trails, err := st.LoadTrails(saved.ID)
	if err != nil {
		t.Fatalf("load trails failed: %v", err)
	}
	if len(trails) != 3 || trails[2].Index != 2 {
		t.Errorf("expected 3 trail points, got %+v", trails)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	runSession(t, st, 1, false)
	os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List() = %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	meta, _ := runSession(t, st, 2, false)

	runDir := filepath.Join(tmpDir, meta.ID)
	for _, name := range []string{metadataFile, stepsFile, trailsFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if _, err := os.Stat(filepath.Join(runDir, contactsFile)); !os.IsNotExist(err) {
		t.Error("contacts.csv written while disabled")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	meta, _ := runSession(t, st, 3, false)

	var buf bytes.Buffer
	if err := st.Export(&buf, meta.ID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if data.Run.ID != meta.ID || len(data.Steps) != 3 {
		t.Errorf("export %+v", data)
	}

	if err := st.Export(&buf, "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}
