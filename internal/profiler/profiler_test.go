package profiler

import (
	"bytes"
	"testing"

	"github.com/redeaux-corp/mango/internal/catalog"
)

func testCatalogBytes() []byte {
	return []byte(`{
		"Natural": {"Sequence": [[1,1]], "GlobalRounds": 2, "AggregateScore": 0.5},
		"Random": {"Sequence": [[1,1]], "GlobalRounds": 1, "AggregateScore": 0.9},
		"Sequence": {"Sequence": [[1,1]], "GlobalRounds": 1, "AggregateScore": 0.7},
		"Combined": {"Sequence": [[1,1]], "GlobalRounds": 3, "AggregateScore": 0.6},
		"UserData": {"Sequence": [[1,1]], "GlobalRounds": 1, "AggregateScore": 0.4}
	}`)
}

func TestClassifyEmptyInput(t *testing.T) {
	if _, err := Classify(nil, DefaultThresholds()); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestClassifyMonotonicSequence(t *testing.T) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}
	class, err := Classify(buf, DefaultThresholds())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if class != ClassSequence {
		t.Fatalf("expected Sequence, got %s", class)
	}
}

func TestClassifyAllZeroIsUserDataOrCombined(t *testing.T) {
	buf := make([]byte, 4096)
	class, err := Classify(buf, DefaultThresholds())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if class != ClassUserData && class != ClassCombined {
		t.Fatalf("expected UserData or Combined for all-zero input, got %s", class)
	}
}

func TestClassifyNaturalText(t *testing.T) {
	buf := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 40)
	class, err := Classify(buf, DefaultThresholds())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if class != ClassNatural {
		t.Fatalf("expected Natural, got %s", class)
	}
}

func TestResolveFallsBackToCombined(t *testing.T) {
	cat, err := catalog.Load([]byte(`{"Combined": {"Sequence": [[1,1]], "GlobalRounds": 2, "AggregateScore": 0.6}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := New(DefaultThresholds(), 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf := make([]byte, 4096)
	prof, class, err := p.Resolve(buf, cat)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if prof.Name != "Combined" {
		t.Fatalf("expected fallback to Combined profile, got %s (class %s)", prof.Name, class)
	}
}

func TestResolveNoProfileAvailable(t *testing.T) {
	cat, err := catalog.Load([]byte(`{"Random": {"Sequence": [[1,1]], "GlobalRounds": 1, "AggregateScore": 0.9}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := New(DefaultThresholds(), 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf := make([]byte, 4096)
	if _, _, err := p.Resolve(buf, cat); err == nil {
		t.Fatal("expected ErrNoProfileAvailable when neither class nor Combined is loaded")
	}
}

func TestResolveUsesCacheAcrossCatalogSwap(t *testing.T) {
	cat1, err := catalog.Load(testCatalogBytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := New(DefaultThresholds(), 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf := make([]byte, 4096) // classifies as UserData or Combined
	prof1, class1, err := p.Resolve(buf, cat1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	cat2, err := catalog.Load([]byte(`{"Combined": {"Sequence": [[1,1]], "GlobalRounds": 9, "AggregateScore": 0.1}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	prof2, class2, err := p.Resolve(buf, cat2)
	if err != nil {
		t.Fatalf("Resolve after catalog swap: %v", err)
	}
	if class1 != class2 {
		t.Fatalf("cached classification changed across catalog swap: %s vs %s", class1, class2)
	}
	if prof1.Name == prof2.Name && prof1.GlobalRounds == prof2.GlobalRounds && cat1 != cat2 {
		// Not necessarily distinct values, but the resolved profile must
		// come from the catalog passed on this call, not a cached profile.
		if prof2.GlobalRounds != 9 {
			t.Fatalf("Resolve returned a stale profile after catalog swap: %+v", prof2)
		}
	}
}
