package domain

import "time"

// Activity actions recorded in the gateway audit trail.
const (
	ActionLogin              = "auth.login"
	ActionSignup             = "auth.signup"
	ActionLogout             = "auth.logout"
	ActionPasswordReset      = "auth.password_reset"
	ActionNoticeCreated      = "notice.created"
	ActionNoticeStatusChange = "notice.status_changed"
	ActionNoticeDeleted      = "notice.deleted"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Activity is one audit trail entry. Actor is a fingerprint, never a raw
// token or password.
type Activity struct {
	ID         string    `json:"id" bson:"_id"`
	Actor      string    `json:"actor" bson:"actor"`
	Role       string    `json:"role,omitempty" bson:"role,omitempty"`
	Action     string    `json:"action" bson:"action"`
	Subject    string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Outcome    string    `json:"outcome" bson:"outcome"`
	Detail     string    `json:"detail,omitempty" bson:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at" bson:"occurred_at"`
}
