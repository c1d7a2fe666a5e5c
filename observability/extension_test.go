package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCounter struct{ n float64 }

func (c *fakeCounter) Inc()          { c.n++ }
func (c *fakeCounter) Add(v float64) { c.n += v }

type fakeHistogram struct{ samples []float64 }

func (h *fakeHistogram) Observe(v float64) { h.samples = append(h.samples, v) }

type fakeFactory struct {
	counters   map[string]*fakeCounter
	histograms map[string]*fakeHistogram
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		counters:   make(map[string]*fakeCounter),
		histograms: make(map[string]*fakeHistogram),
	}
}

func (f *fakeFactory) Counter(name string) Counter {
	c := &fakeCounter{}
	f.counters[name] = c
	return c
}

func (f *fakeFactory) Histogram(name string) Histogram {
	h := &fakeHistogram{}
	f.histograms[name] = h
	return h
}

func TestMetricsExtension(t *testing.T) {
	ctx := context.Background()
	f := newFakeFactory()
	m := NewMetricsExtension(f)

	if err := m.OnMint(ctx, "bob", 7, 1000); err != nil {
		t.Fatalf("OnMint: %v", err)
	}
	if err := m.OnMint(ctx, "bob", 7, 500); err != nil {
		t.Fatalf("OnMint: %v", err)
	}
	if err := m.OnTransfer(ctx, "bob", "carol", 7, 250); err != nil {
		t.Fatalf("OnTransfer: %v", err)
	}
	if err := m.OnAuthorizationDenied(ctx, "mallory", "mint"); err != nil {
		t.Fatalf("OnAuthorizationDenied: %v", err)
	}
	if err := m.OnSnapshotSaved(ctx, "snap_x", 42*time.Millisecond); err != nil {
		t.Fatalf("OnSnapshotSaved: %v", err)
	}
	if err := m.OnStoreError(ctx, "save", errors.New("disk full")); err != nil {
		t.Fatalf("OnStoreError: %v", err)
	}
	if err := m.OnHookError(ctx, "OnMint", "audit-hook", errors.New("boom")); err != nil {
		t.Fatalf("OnHookError: %v", err)
	}

	if got := f.counters["tokenledger.tokens.minted"].n; got != 2 {
		t.Errorf("minted counter: got %v, want 2", got)
	}
	if got := f.counters["tokenledger.tokens.transferred"].n; got != 1 {
		t.Errorf("transferred counter: got %v, want 1", got)
	}
	if got := f.counters["tokenledger.authorizations.denied"].n; got != 1 {
		t.Errorf("denied counter: got %v, want 1", got)
	}
	if got := f.counters["tokenledger.store.errors"].n; got != 1 {
		t.Errorf("store error counter: got %v, want 1", got)
	}
	if got := f.counters["tokenledger.hook.errors"].n; got != 1 {
		t.Errorf("hook error counter: got %v, want 1", got)
	}

	amounts := f.histograms["tokenledger.mint.amount"].samples
	if len(amounts) != 2 || amounts[0] != 1000 || amounts[1] != 500 {
		t.Errorf("mint amount samples: got %v", amounts)
	}
	latency := f.histograms["tokenledger.snapshot.save.latency_ms"].samples
	if len(latency) != 1 || latency[0] != 42 {
		t.Errorf("save latency samples: got %v", latency)
	}
}
