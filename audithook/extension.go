// Package audithook bridges ledger lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Compile-time interface checks.
var (
	_ hook.Hook                   = (*Extension)(nil)
	_ hook.OnMint                 = (*Extension)(nil)
	_ hook.OnTransfer             = (*Extension)(nil)
	_ hook.OnApprovalSet          = (*Extension)(nil)
	_ hook.OnAdminAdded           = (*Extension)(nil)
	_ hook.OnOwnershipTransferred = (*Extension)(nil)
	_ hook.OnAuthorizationDenied  = (*Extension)(nil)
	_ hook.OnSnapshotSaved        = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audithook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	ID         id.AuditEventID `json:"id"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	Category   string          `json:"category"`
	ResourceID string          `json:"resource_id,omitempty"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
	Outcome    string          `json:"outcome"`
	Severity   string          `json:"severity"`
	Reason     string          `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements hook.Hook.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Token lifecycle hooks
// ──────────────────────────────────────────────────

// OnMint implements hook.OnMint.
func (e *Extension) OnMint(ctx context.Context, caller types.Identity, kind types.TokenKind, amount types.Amount) error {
	return e.record(ctx, ActionTokensMinted, SeverityInfo, OutcomeSuccess,
		ResourceBalance, string(caller), CategoryToken, nil,
		"caller", string(caller),
		"kind", kind.String(),
		"amount", amount.String(),
	)
}

// OnTransfer implements hook.OnTransfer.
func (e *Extension) OnTransfer(ctx context.Context, from, to types.Identity, kind types.TokenKind, amount types.Amount) error {
	return e.record(ctx, ActionTokensTransferred, SeverityInfo, OutcomeSuccess,
		ResourceBalance, string(from), CategoryToken, nil,
		"from", string(from),
		"to", string(to),
		"kind", kind.String(),
		"amount", amount.String(),
	)
}

// ──────────────────────────────────────────────────
// Roster and approval hooks
// ──────────────────────────────────────────────────

// OnApprovalSet implements hook.OnApprovalSet.
func (e *Extension) OnApprovalSet(ctx context.Context, holder, delegate types.Identity, kind types.TokenKind) error {
	return e.record(ctx, ActionApprovalSet, SeverityInfo, OutcomeSuccess,
		ResourceApproval, string(holder), CategoryAccess, nil,
		"holder", string(holder),
		"delegate", string(delegate),
		"kind", kind.String(),
	)
}

// OnAdminAdded implements hook.OnAdminAdded.
func (e *Extension) OnAdminAdded(ctx context.Context, owner, admin types.Identity) error {
	return e.record(ctx, ActionAdminAdded, SeverityInfo, OutcomeSuccess,
		ResourceRoster, string(admin), CategoryAccess, nil,
		"owner", string(owner),
		"admin", string(admin),
	)
}

// OnOwnershipTransferred implements hook.OnOwnershipTransferred.
func (e *Extension) OnOwnershipTransferred(ctx context.Context, oldOwner, newOwner types.Identity) error {
	return e.record(ctx, ActionOwnershipTransferred, SeverityWarning, OutcomeSuccess,
		ResourceRoster, string(newOwner), CategoryAccess, nil,
		"old_owner", string(oldOwner),
		"new_owner", string(newOwner),
	)
}

// OnAuthorizationDenied implements hook.OnAuthorizationDenied.
func (e *Extension) OnAuthorizationDenied(ctx context.Context, caller types.Identity, action string) error {
	return e.record(ctx, ActionAuthorizationDenied, SeverityWarning, OutcomeFailure,
		ResourceRoster, string(caller), CategoryAccess, nil,
		"caller", string(caller),
		"attempted", action,
	)
}

// ──────────────────────────────────────────────────
// Persistence hooks
// ──────────────────────────────────────────────────

// OnSnapshotSaved implements hook.OnSnapshotSaved.
func (e *Extension) OnSnapshotSaved(ctx context.Context, snapshotID string, elapsed time.Duration) error {
	return e.record(ctx, ActionSnapshotSaved, SeverityInfo, OutcomeSuccess,
		ResourceSnapshot, snapshotID, CategoryPersistence, nil,
		"snapshot_id", snapshotID,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		ID:         id.NewAuditEventID(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audithook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
