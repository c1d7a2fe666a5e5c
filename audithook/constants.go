package audithook

// Action constants for audit events.
const (
	// Token actions
	ActionTokensMinted      = "tokens.minted"
	ActionTokensTransferred = "tokens.transferred"

	// Approval actions
	ActionApprovalSet = "approval.set"

	// Roster actions
	ActionAdminAdded           = "admin.added"
	ActionOwnershipTransferred = "ownership.transferred"

	// Access actions
	ActionAuthorizationDenied = "authorization.denied"

	// Persistence actions
	ActionSnapshotSaved = "snapshot.saved"
)

// Resource constants for audit events.
const (
	ResourceBalance  = "balance"
	ResourceApproval = "approval"
	ResourceRoster   = "roster"
	ResourceSnapshot = "snapshot"
)

// Category constants for audit events.
const (
	CategoryToken       = "token"
	CategoryAccess      = "access"
	CategoryPersistence = "persistence"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
