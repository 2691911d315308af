package docstone

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func noopPostProcessor(*ExtractionResult) error { return nil }

func noopValidator(*ExtractionResult) error { return nil }

func names(infos []PluginInfo) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.Name
	}
	return out
}

func noopOCRBackend([]byte, *ExtractionConfig) (*ExtractionResult, error) {
	return &ExtractionResult{Success: true}, nil
}

func resetRegistries(t *testing.T) {
	t.Helper()
	cleanup := func() {
		_ = ClearOCRBackends()
		_ = ClearPostProcessors()
		_ = ClearValidators()
	}
	cleanup()
	t.Cleanup(cleanup)
}

func TestRegisterRejectsInvalidArguments(t *testing.T) {
	resetRegistries(t)

	cases := []struct {
		name string
		err  error
	}{
		{"empty ocr name", RegisterOCRBackend("", noopOCRBackend)},
		{"blank ocr name", RegisterOCRBackend("   ", noopOCRBackend)},
		{"nil ocr fn", RegisterOCRBackend("x", nil)},
		{"empty post name", RegisterPostProcessor("", 0, noopPostProcessor)},
		{"nil post fn", RegisterPostProcessor("x", 0, nil)},
		{"empty validator name", RegisterValidator("", 0, noopValidator)},
		{"nil validator fn", RegisterValidator("x", 0, nil)},
	}
	for _, tc := range cases {
		var verr *ValidationError
		if !errors.As(tc.err, &verr) {
			t.Fatalf("%s: got %v, want ValidationError", tc.name, tc.err)
		}
	}
	if len(ListOCRBackends()) != 0 || len(ListPostProcessors()) != 0 || len(ListValidators()) != 0 {
		t.Fatal("rejected registrations must not appear in listings")
	}
}

func TestPostProcessorsListHighestPriorityFirst(t *testing.T) {
	resetRegistries(t)

	if err := RegisterPostProcessor("trim", 5, noopPostProcessor); err != nil {
		t.Fatalf("register trim: %v", err)
	}
	if err := RegisterPostProcessor("uppercase", 10, noopPostProcessor); err != nil {
		t.Fatalf("register uppercase: %v", err)
	}

	got := ListPostProcessors()
	if len(got) != 2 || got[0].Name != "uppercase" || got[1].Name != "trim" {
		t.Fatalf("list = %v, want [uppercase trim]", names(got))
	}
	if got[0].Priority != 10 || got[1].Priority != 5 {
		t.Fatalf("priorities = %v", got)
	}
}

func TestEqualPriorityKeepsRegistrationOrder(t *testing.T) {
	resetRegistries(t)

	for _, name := range []string{"first", "second", "third"} {
		if err := RegisterValidator(name, 7, noopValidator); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	got := names(ListValidators())
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list = %v, want %v", got, want)
		}
	}
}

func TestReRegisterMovesBehindEqualPriorityPeers(t *testing.T) {
	resetRegistries(t)

	if err := RegisterPostProcessor("a", 3, noopPostProcessor); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := RegisterPostProcessor("b", 3, noopPostProcessor); err != nil {
		t.Fatalf("register b: %v", err)
	}

	// Replacing "a" acts like unregister+register: it yields its slot.
	if err := RegisterPostProcessor("a", 3, noopPostProcessor); err != nil {
		t.Fatalf("re-register a: %v", err)
	}

	got := names(ListPostProcessors())
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("list after replace = %v, want [b a]", got)
	}
}

func TestReRegisterCanChangePriority(t *testing.T) {
	resetRegistries(t)

	if err := RegisterPostProcessor("mover", 1, noopPostProcessor); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterPostProcessor("anchor", 5, noopPostProcessor); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterPostProcessor("mover", 9, noopPostProcessor); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	got := ListPostProcessors()
	if len(got) != 2 || got[0].Name != "mover" || got[0].Priority != 9 {
		t.Fatalf("list = %v, want mover at priority 9 first", got)
	}
}

func TestUnregisterUnknownNameIsNoError(t *testing.T) {
	resetRegistries(t)

	if err := UnregisterOCRBackend("ghost"); err != nil {
		t.Fatalf("unregister unknown ocr backend: %v", err)
	}
	if err := UnregisterPostProcessor("ghost"); err != nil {
		t.Fatalf("unregister unknown post processor: %v", err)
	}
	if err := UnregisterValidator("ghost"); err != nil {
		t.Fatalf("unregister unknown validator: %v", err)
	}
}

func TestUnregisterRemovesEntry(t *testing.T) {
	resetRegistries(t)

	if err := RegisterValidator("checker", 1, noopValidator); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := UnregisterValidator("checker"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if got := ListValidators(); len(got) != 0 {
		t.Fatalf("list after unregister = %v", got)
	}
}

func TestClearEmptiesRegistry(t *testing.T) {
	resetRegistries(t)

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("backend-%d", i)
		if err := RegisterOCRBackend(name, noopOCRBackend); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if err := ClearOCRBackends(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := ListOCRBackends(); len(got) != 0 {
		t.Fatalf("list after clear = %v", got)
	}
}

func TestConcurrentRegistration(t *testing.T) {
	resetRegistries(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("proc-%d", n)
			if err := RegisterPostProcessor(name, n%4, noopPostProcessor); err != nil {
				t.Errorf("register %s: %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	if got := ListPostProcessors(); len(got) != 16 {
		t.Fatalf("expected 16 registrations, got %d", len(got))
	}
}
