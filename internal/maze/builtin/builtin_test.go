package builtin

import (
	"testing"

	"github.com/vovakirdan/mazebot/internal/registry"
)

func TestBuiltinMazesAreValid(t *testing.T) {
	list := registry.List()
	if len(list) != 8 {
		t.Fatalf("List() returned %d mazes, expected 8", len(list))
	}

	for _, info := range list {
		t.Run(info.ID, func(t *testing.T) {
			m, err := registry.Create(info.ID, 42)
			if err != nil {
				t.Fatalf("Create(%q) error: %v", info.ID, err)
			}
			if m.Dim() != info.Dim {
				t.Errorf("Dim() = %d, expected %d", m.Dim(), info.Dim)
			}
			if m.Name != info.ID {
				t.Errorf("Name = %q, expected %q", m.Name, info.ID)
			}
			if err := m.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestRegistryLookups(t *testing.T) {
	if !registry.Exists("wilson-16") {
		t.Error("wilson-16 should be registered")
	}
	if registry.Exists("nope") {
		t.Error("unexpected maze nope")
	}
	if _, err := registry.Create("nope", 1); err == nil {
		t.Error("Create(nope) should fail")
	}

	list := registry.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering open-8 twice should panic")
		}
	}()
	registry.Register(registry.MazeInfo{ID: "open-8"}, nil)
}
