package dedup

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testBase = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testEntry(url, canonical string, ts time.Time) Entry {
	return Entry{
		Fingerprint: Fingerprint(url, canonical),
		URL:         url,
		Category:    "FED_MONETARY",
		Canonical:   canonical,
		Timestamp:   ts,
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("https://example.com/x", "some text")
	b := Fingerprint("https://example.com/x", "other text")
	if a != b {
		t.Errorf("fingerprints over same URL differ: %q vs %q", a, b)
	}

	c := Fingerprint("", "some text")
	d := Fingerprint("", "some text")
	if c != d {
		t.Errorf("fingerprints over same canonical text differ: %q vs %q", c, d)
	}
	if a == c {
		t.Error("URL fingerprint matches canonical-only fingerprint")
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}
}

func TestWindow_URLDuplicate(t *testing.T) {
	w := NewWindow(DefaultConfig())
	e := testEntry("https://example.com/fed", "fed cuts rates by 50 basis points", testBase)

	if w.IsDuplicate(e, testBase) {
		t.Fatal("first sighting reported as duplicate")
	}
	w.Add(e)

	// Same URL, different wording three minutes later.
	again := testEntry("https://example.com/fed", "the federal reserve lowered its target range", testBase.Add(3*time.Minute))
	if !w.IsDuplicate(again, testBase.Add(3*time.Minute)) {
		t.Error("repeated URL not reported as duplicate")
	}
}

func TestWindow_SimilarTextDuplicate(t *testing.T) {
	w := NewWindow(DefaultConfig())
	w.Add(testEntry("https://a.example/1", "fed cuts rates by 50 basis points", testBase))

	near := testEntry("https://b.example/2", "fed cuts rates by 25 basis points", testBase.Add(10*time.Minute))
	if !w.IsDuplicate(near, testBase.Add(10*time.Minute)) {
		t.Error("near-identical text not reported as duplicate")
	}

	far := testEntry("https://c.example/3", "county fair announces pie contest winners for the year", testBase.Add(10*time.Minute))
	if w.IsDuplicate(far, testBase.Add(10*time.Minute)) {
		t.Error("unrelated text reported as duplicate")
	}
}

func TestWindow_EntityCategoryDuplicate(t *testing.T) {
	w := NewWindow(DefaultConfig())

	first := testEntry("https://a.example/1", "powell signals a cut is coming at the next meeting", testBase)
	first.Entities = []string{"jerome powell", "fomc"}
	w.Add(first)

	// Different URL, dissimilar wording, shared entity, same category, 30m apart.
	second := testEntry("https://b.example/2", "markets rally on central bank remarks this afternoon", testBase.Add(30*time.Minute))
	second.Entities = []string{"jerome powell"}
	if !w.IsDuplicate(second, testBase.Add(30*time.Minute)) {
		t.Error("entity+category match inside entity window not reported as duplicate")
	}

	// Same entity but outside the entity window.
	late := second
	late.Timestamp = testBase.Add(2 * time.Hour)
	if w.IsDuplicate(late, testBase.Add(2*time.Hour)) {
		t.Error("entity match outside entity window reported as duplicate")
	}

	// Same entity, same time gap, different category.
	other := second
	other.Category = "CRYPTO"
	if w.IsDuplicate(other, testBase.Add(30*time.Minute)) {
		t.Error("entity match across categories reported as duplicate")
	}
}

func TestWindow_Eviction(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWindow(cfg)
	e := testEntry("https://example.com/fed", "fed cuts rates by 50 basis points", testBase)
	w.Add(e)

	justInside := testBase.Add(cfg.Retention - time.Second)
	if !w.Contains(e.Fingerprint, justInside) {
		t.Error("entry evicted before retention elapsed")
	}

	justOutside := testBase.Add(cfg.Retention + time.Second)
	if w.Contains(e.Fingerprint, justOutside) {
		t.Error("entry still present after retention elapsed")
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d after eviction, want 0", w.Len())
	}

	// The same story after expiry is a fresh event again.
	if w.IsDuplicate(e, justOutside) {
		t.Error("expired entry still suppresses new sightings")
	}
}

func TestWindow_Corroboration(t *testing.T) {
	w := NewWindow(DefaultConfig())
	now := testBase.Add(90 * time.Minute)

	a := testEntry("https://a.example/1", "fed statement one", testBase)
	b := testEntry("https://b.example/2", "completely different fed coverage", testBase.Add(30*time.Minute))
	stale := testEntry("https://c.example/3", "old fed coverage", testBase.Add(-3*time.Hour))
	other := testEntry("https://d.example/4", "bitcoin coverage", testBase.Add(30*time.Minute))
	other.Category = "CRYPTO"
	for _, e := range []Entry{a, b, stale, other} {
		w.Add(e)
	}

	if got := w.Corroboration("FED_MONETARY", "unrelated-fingerprint", now); got != 2 {
		t.Errorf("Corroboration() = %d, want 2", got)
	}

	// An event never corroborates itself.
	if got := w.Corroboration("FED_MONETARY", a.Fingerprint, now); got != 1 {
		t.Errorf("Corroboration() excluding own fingerprint = %d, want 1", got)
	}

	if got := w.Corroboration("GEOPOLITICS", "x", now); got != 0 {
		t.Errorf("Corroboration() for quiet category = %d, want 0", got)
	}
}

type fakeStore struct {
	entries  []Entry
	loadErr  error
	appended []Entry
	pruned   time.Time
}

func (s *fakeStore) Load(ctx context.Context) ([]Entry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.entries, nil
}

func (s *fakeStore) Append(ctx context.Context, e Entry) error {
	s.appended = append(s.appended, e)
	return nil
}

func (s *fakeStore) Prune(ctx context.Context, cutoff time.Time) error {
	s.pruned = cutoff
	return nil
}

func TestRestore(t *testing.T) {
	cfg := DefaultConfig()
	fresh := testEntry("https://a.example/1", "fed statement one", testBase.Add(-time.Hour))
	stale := testEntry("https://b.example/2", "fed statement two", testBase.Add(-25*time.Hour))
	store := &fakeStore{entries: []Entry{stale, fresh}}

	w, err := Restore(context.Background(), store, cfg, testBase)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !w.Contains(fresh.Fingerprint, testBase) {
		t.Error("fresh entry missing after restore")
	}
	if w.Contains(stale.Fingerprint, testBase) {
		t.Error("stale entry survived restore")
	}
	if want := testBase.Add(-cfg.Retention); !store.pruned.Equal(want) {
		t.Errorf("Prune cutoff = %v, want %v", store.pruned, want)
	}
}

func TestRestore_FailsClosedOnCorruptStore(t *testing.T) {
	store := &fakeStore{loadErr: ErrCorruptWindow}

	w, err := Restore(context.Background(), store, DefaultConfig(), testBase)
	if w != nil {
		t.Error("Restore() returned a window despite load failure")
	}
	if !errors.Is(err, ErrCorruptWindow) {
		t.Errorf("Restore() error = %v, want ErrCorruptWindow", err)
	}
}
