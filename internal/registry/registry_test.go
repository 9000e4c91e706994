package registry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/physics/physicstest"
	"github.com/san-kum/physbox/internal/session"
)

func emptySession() (*session.Session, error) {
	return session.New(physicstest.NewWorld(physics.Vec2{}), nil, session.DefaultConfig())
}

func TestRegisterCapacity(t *testing.T) {
	r := New()
	for i := 0; i < Capacity; i++ {
		slot, err := r.Register("bench", fmt.Sprintf("s%d", i), emptySession)
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if slot != i {
			t.Fatalf("slot %d, want %d", slot, i)
		}
	}

	_, err := r.Register("bench", "overflow", emptySession)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("257th register: %v, want ErrCapacityExceeded", err)
	}
	if r.Len() != Capacity {
		t.Errorf("len %d after rejected register", r.Len())
	}
	last, err := r.Entry(Capacity - 1)
	if err != nil || last.Name != "s255" {
		t.Errorf("last entry %+v, %v", last, err)
	}
	if _, err := r.Lookup("bench", "overflow"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rejected entry is resolvable: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	first, _ := r.Register("basic", "drop", emptySession)
	r.Register("basic", "other", emptySession)
	again, err := r.Register("basic", "drop", func() (*session.Session, error) {
		return nil, errors.New("replacement must not be stored")
	})
	if err != nil || again != first {
		t.Fatalf("duplicate register = %d, %v", again, err)
	}
	if r.Len() != 2 {
		t.Errorf("len %d, want 2", r.Len())
	}
	s, err := r.Create(first)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()
}

func TestCreateAndLookup(t *testing.T) {
	r := New()
	r.Register("basic", "drop", emptySession)
	r.Register("stress", "drop", func() (*session.Session, error) {
		return nil, errors.New("boom")
	})

	tests := []struct {
		name     string
		category string
		entry    string
		want     int
		wantErr  error
	}{
		{"exact", "stress", "drop", 1, nil},
		{"any category", "", "drop", 0, nil},
		{"missing", "basic", "nope", -1, ErrNotFound},
		{"missing name", "", "nope", -1, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Lookup(tt.category, tt.entry)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("slot = %d, want %d", got, tt.want)
			}
		})
	}

	for _, i := range []int{-1, 2, 100} {
		if _, err := r.Create(i); !errors.Is(err, ErrNotFound) {
			t.Errorf("Create(%d) = %v, want ErrNotFound", i, err)
		}
	}
	if _, err := r.Create(1); err == nil {
		t.Error("factory error swallowed")
	}

	entries := r.Enumerate()
	entries[0].Name = "mutated"
	if e, _ := r.Entry(0); e.Name != "drop" {
		t.Error("Enumerate returned an alias")
	}
	if names := r.ListNames(); len(names) != 2 || names[1] != "stress/drop" {
		t.Errorf("names %v", names)
	}
}

func TestRegisterNilFactory(t *testing.T) {
	r := New()
	if _, err := r.Register("a", "b", nil); err == nil {
		t.Error("nil factory accepted")
	}
	if r.Len() != 0 {
		t.Error("nil factory stored")
	}
}

func TestRegisterSlashInNames(t *testing.T) {
	r := New()
	first, err := r.Register("a/b", "c", emptySession)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Register("a", "b/c", emptySession)
	if err != nil {
		t.Fatal(err)
	}
	if first == second || r.Len() != 2 {
		t.Fatalf("slots %d and %d, len %d: pairs collided", first, second, r.Len())
	}
	if i, err := r.Lookup("a", "b/c"); err != nil || i != second {
		t.Errorf("Lookup(a, b/c) = %d, %v", i, err)
	}
	if i, err := r.Lookup("a/b", "c"); err != nil || i != first {
		t.Errorf("Lookup(a/b, c) = %d, %v", i, err)
	}
}
