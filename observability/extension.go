// Package observability provides a metrics extension for the ledger that
// records lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ hook.Hook                   = (*MetricsExtension)(nil)
	_ hook.OnInit                 = (*MetricsExtension)(nil)
	_ hook.OnMint                 = (*MetricsExtension)(nil)
	_ hook.OnTransfer             = (*MetricsExtension)(nil)
	_ hook.OnApprovalSet          = (*MetricsExtension)(nil)
	_ hook.OnAdminAdded           = (*MetricsExtension)(nil)
	_ hook.OnOwnershipTransferred = (*MetricsExtension)(nil)
	_ hook.OnAuthorizationDenied  = (*MetricsExtension)(nil)
	_ hook.OnSnapshotSaved        = (*MetricsExtension)(nil)
	_ hook.OnStoreError           = (*MetricsExtension)(nil)
	_ hook.OnHookError            = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a ledger hook to automatically track token metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Token metrics
	TokensMinted      Counter
	MintAmount        Histogram
	TokensTransferred Counter
	TransferAmount    Histogram

	// Approval metrics
	ApprovalsSet Counter

	// Roster metrics
	AdminsAdded          Counter
	OwnershipTransferred Counter
	AuthorizationsDenied Counter

	// Persistence metrics
	SnapshotsSaved      Counter
	SnapshotSaveLatency Histogram

	// Error metrics
	StoreErrors Counter
	HookErrors  Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Token metrics
		TokensMinted:      factory.Counter("tokenledger.tokens.minted"),
		MintAmount:        factory.Histogram("tokenledger.mint.amount"),
		TokensTransferred: factory.Counter("tokenledger.tokens.transferred"),
		TransferAmount:    factory.Histogram("tokenledger.transfer.amount"),

		// Approval metrics
		ApprovalsSet: factory.Counter("tokenledger.approvals.set"),

		// Roster metrics
		AdminsAdded:          factory.Counter("tokenledger.admins.added"),
		OwnershipTransferred: factory.Counter("tokenledger.ownership.transferred"),
		AuthorizationsDenied: factory.Counter("tokenledger.authorizations.denied"),

		// Persistence metrics
		SnapshotsSaved:      factory.Counter("tokenledger.snapshots.saved"),
		SnapshotSaveLatency: factory.Histogram("tokenledger.snapshot.save.latency_ms"),

		// Error metrics
		StoreErrors: factory.Counter("tokenledger.store.errors"),
		HookErrors:  factory.Counter("tokenledger.hook.errors"),
	}
}

// Name implements hook.Hook.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements hook.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Token lifecycle hooks
// ──────────────────────────────────────────────────

// OnMint implements hook.OnMint.
func (m *MetricsExtension) OnMint(_ context.Context, _ types.Identity, _ types.TokenKind, amount types.Amount) error {
	m.TokensMinted.Inc()
	m.MintAmount.Observe(float64(amount))
	return nil
}

// OnTransfer implements hook.OnTransfer.
func (m *MetricsExtension) OnTransfer(_ context.Context, _, _ types.Identity, _ types.TokenKind, amount types.Amount) error {
	m.TokensTransferred.Inc()
	m.TransferAmount.Observe(float64(amount))
	return nil
}

// ──────────────────────────────────────────────────
// Approval and roster hooks
// ──────────────────────────────────────────────────

// OnApprovalSet implements hook.OnApprovalSet.
func (m *MetricsExtension) OnApprovalSet(_ context.Context, _, _ types.Identity, _ types.TokenKind) error {
	m.ApprovalsSet.Inc()
	return nil
}

// OnAdminAdded implements hook.OnAdminAdded.
func (m *MetricsExtension) OnAdminAdded(_ context.Context, _, _ types.Identity) error {
	m.AdminsAdded.Inc()
	return nil
}

// OnOwnershipTransferred implements hook.OnOwnershipTransferred.
func (m *MetricsExtension) OnOwnershipTransferred(_ context.Context, _, _ types.Identity) error {
	m.OwnershipTransferred.Inc()
	return nil
}

// OnAuthorizationDenied implements hook.OnAuthorizationDenied.
func (m *MetricsExtension) OnAuthorizationDenied(_ context.Context, _ types.Identity, _ string) error {
	m.AuthorizationsDenied.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Persistence hooks
// ──────────────────────────────────────────────────

// OnSnapshotSaved implements hook.OnSnapshotSaved.
func (m *MetricsExtension) OnSnapshotSaved(_ context.Context, _ string, elapsed time.Duration) error {
	m.SnapshotsSaved.Inc()
	m.SnapshotSaveLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}

// OnStoreError implements hook.OnStoreError.
func (m *MetricsExtension) OnStoreError(_ context.Context, _ string, _ error) error {
	m.StoreErrors.Inc()
	return nil
}

// OnHookError implements hook.OnHookError.
func (m *MetricsExtension) OnHookError(_ context.Context, _, _ string, _ error) error {
	m.HookErrors.Inc()
	return nil
}
