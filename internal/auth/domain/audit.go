package domain

import "time"

// AuditKind classifies a credential event.
type AuditKind string

const (
	AuditLoginSucceeded    AuditKind = "login_succeeded"
	AuditLoginFailed       AuditKind = "login_failed"
	AuditReauthSucceeded   AuditKind = "reauth_succeeded"
	AuditReauthFailed      AuditKind = "reauth_failed"
	AuditTokenRejected     AuditKind = "token_rejected"
	AuditPersistenceFailed AuditKind = "persistence_failed"
)

// AuditEvent is one entry of the credential audit trail. Tokens are recorded
// by fingerprint only.
type AuditEvent struct {
	ID               string
	Kind             AuditKind
	UserID           string
	Provider         ProviderKind
	Reason           string
	TokenFingerprint string
	RequestID        string
	CreatedAt        time.Time
}
