package engine

import (
	"context"
	"sync"

	"github.com/stelelabs/fundx/pkg/entity"
	"github.com/stelelabs/fundx/pkg/event"
)

// Recorder receives the immutable log mirror: exactly one record per
// processed event. Recorder failures are infrastructure failures and bubble
// up; aggregate folding only happens after the mirror is accepted.
type Recorder interface {
	Record(ctx context.Context, ev *event.Event) error
}

// SnapshotSink receives time-bucketed snapshot upserts. Writing twice within
// one bucket must overwrite, never duplicate.
type SnapshotSink interface {
	UpsertInfoSnapshot(ctx context.Context, snap *entity.InfoSnapshot) error
	UpsertFundSnapshot(ctx context.Context, snap *entity.FundSnapshot) error
	UpsertInvestorSnapshot(ctx context.Context, snap *entity.InvestorSnapshot) error
}

// Publisher is a best-effort notification hook for applied events (live
// feeds). Implementations must not block the reducer path on failure.
type Publisher interface {
	PublishApplied(ctx context.Context, ev *event.Event)
}

// NopPublisher discards applied-event notifications.
type NopPublisher struct{}

func (NopPublisher) PublishApplied(context.Context, *event.Event) {}

// MemoryRecorder keeps event mirrors in memory. Used by tests and dry-run
// replays.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []*event.Event
}

var _ Recorder = (*MemoryRecorder)(nil)

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, ev *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns the recorded mirrors in application order.
func (r *MemoryRecorder) Events() []*event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*event.Event, len(r.events))
	copy(out, r.events)
	return out
}

// MemorySnapshotSink keeps the latest snapshot row per key in memory.
type MemorySnapshotSink struct {
	mu        sync.Mutex
	info      map[string]*entity.InfoSnapshot
	funds     map[string]*entity.FundSnapshot
	investors map[string]*entity.InvestorSnapshot
}

var _ SnapshotSink = (*MemorySnapshotSink)(nil)

func NewMemorySnapshotSink() *MemorySnapshotSink {
	return &MemorySnapshotSink{
		info:      make(map[string]*entity.InfoSnapshot),
		funds:     make(map[string]*entity.FundSnapshot),
		investors: make(map[string]*entity.InvestorSnapshot),
	}
}

func (s *MemorySnapshotSink) UpsertInfoSnapshot(_ context.Context, snap *entity.InfoSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info[snap.Key] = snap
	return nil
}

func (s *MemorySnapshotSink) UpsertFundSnapshot(_ context.Context, snap *entity.FundSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds[snap.Key] = snap
	return nil
}

func (s *MemorySnapshotSink) UpsertInvestorSnapshot(_ context.Context, snap *entity.InvestorSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investors[snap.Key] = snap
	return nil
}

// InfoSnapshots returns the stored info snapshot rows keyed by snapshot key.
func (s *MemorySnapshotSink) InfoSnapshots() map[string]*entity.InfoSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*entity.InfoSnapshot, len(s.info))
	for k, v := range s.info {
		out[k] = v
	}
	return out
}

// FundSnapshots returns the stored fund snapshot rows keyed by snapshot key.
func (s *MemorySnapshotSink) FundSnapshots() map[string]*entity.FundSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*entity.FundSnapshot, len(s.funds))
	for k, v := range s.funds {
		out[k] = v
	}
	return out
}

// InvestorSnapshots returns the stored investor snapshot rows keyed by
// snapshot key.
func (s *MemorySnapshotSink) InvestorSnapshots() map[string]*entity.InvestorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*entity.InvestorSnapshot, len(s.investors))
	for k, v := range s.investors {
		out[k] = v
	}
	return out
}
