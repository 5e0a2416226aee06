// Package engine folds the ordered on-chain event stream into aggregate
// state. It is a deterministic state machine: the same event sequence always
// produces the same aggregates.
//
// Concurrency contract: Apply is invoked by exactly one goroutine (the stream
// consumer). The store's maps are concurrent-read safe for API handlers and
// the flush job, but all writes funnel through the single Apply caller. A
// port to parallel ingestion must keep one serialized writer.
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/event"
	"github.com/stelelabs/fundx/pkg/metadata"
	"github.com/stelelabs/fundx/pkg/store"
)

type Engine struct {
	logger    *zap.Logger
	store     store.Store
	meta      metadata.Resolver
	recorder  Recorder
	snapshots SnapshotSink
	publisher Publisher
}

func New(logger *zap.Logger, st store.Store, meta metadata.Resolver, recorder Recorder, snapshots SnapshotSink, publisher Publisher) *Engine {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Engine{
		logger:    logger,
		store:     st,
		meta:      meta,
		recorder:  recorder,
		snapshots: snapshots,
		publisher: publisher,
	}
}

// Store exposes the aggregate store for read paths (API, flush).
func (e *Engine) Store() store.Store {
	return e.store
}

// Apply processes one event to completion: immutable mirror first, then the
// aggregate fold, then the best-effort applied notification.
//
// Reducers are total. Missing metadata or missing parent aggregates degrade
// with a diagnostic; only the mirror write can fail the call, because losing
// the audit record would desynchronize the log from the aggregates.
func (e *Engine) Apply(ctx context.Context, ev *event.Event) error {
	if err := e.recorder.Record(ctx, ev); err != nil {
		return fmt.Errorf("record %s: %w", ev, err)
	}

	switch p := ev.Payload.(type) {
	case *event.InfoCreated:
		e.applyInfoCreated(ctx, ev)
	case *event.OwnerChanged:
		e.applyOwnerChanged(ev, p)
	case *event.FundCreated:
		e.applyFundCreated(ctx, ev, p)
	case *event.Subscribe:
		e.applySubscribe(ctx, ev, p)
	case *event.Deposit:
		e.applyDeposit(ctx, ev, p)
	case *event.DepositFee:
		e.applyDepositFee(ctx, ev, p)
	case *event.Withdraw:
		e.applyWithdraw(ctx, ev, p)
	case *event.WithdrawFee:
		e.applyWithdrawFee(ctx, ev, p)
	case *event.Swap:
		e.applySwap(ctx, ev, p)
	case *event.SettingCreated:
		e.applySettingCreated(ev, p)
	case *event.ManagerFeeChanged:
		e.applyManagerFeeChanged(ev, p)
	case *event.WhiteListTokenAdded:
		e.applyWhiteListTokenAdded(ev, p)
	case *event.WhiteListTokenRemoved:
		e.applyWhiteListTokenRemoved(ev, p)
	case *event.ManagerNFTMinted:
		e.applyManagerNFTMinted(ev, p)
	case *event.TokenTransfer, *event.DelegateChanged:
		// Mirror-only events: the record written above is the whole effect.
	case *event.DelegateVotesChanged:
		e.applyDelegateVotesChanged(ev, p)
	case *event.ProposalCreated:
		e.applyProposalCreated(ev, p)
	case *event.VoteCast:
		e.applyVoteCast(ev, p)
	case *event.VoteCastWithParams:
		e.applyVoteCast(ev, &p.VoteCast)
	case *event.ProposalQueued:
		e.applyProposalQueued(ev, p)
	case *event.ProposalExecuted:
		e.applyProposalExecuted(ev, p)
	case *event.ProposalCanceled:
		e.applyProposalCanceled(ev, p)
	case *event.ProposalThresholdSet, *event.QuorumNumeratorUpdated,
		*event.VotingDelaySet, *event.VotingPeriodSet, *event.TimelockChange:
		// Governor parameter changes are mirror-only.
	default:
		e.logger.Warn("no reducer for event type, mirror recorded only",
			zap.String("type", string(ev.Type)))
	}

	e.publisher.PublishApplied(ctx, ev)
	return nil
}
