package lifecycle

import (
	"fmt"

	"github.com/pkg/errors"

	"community_pledge_system/internal"
)

var (
	// ErrNotApproved rejects public operations on projects that have not
	// cleared admin approval yet.
	ErrNotApproved = errors.New("project has not been approved")

	// ErrEditLocked rejects human edits once a project is approved.
	ErrEditLocked = errors.New("approved projects can no longer be edited")
)

// ValidationError reports a rejected input field with a message suitable for
// showing to the member who triggered the operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InvalidAmountError distinguishes non-numeric from non-positive pledge
// amounts in the user-facing message; both are rejected identically.
type InvalidAmountError struct {
	Input   string
	Numeric bool
}

func (e *InvalidAmountError) Error() string {
	if !e.Numeric {
		return fmt.Sprintf("Donation pledges must be a number. `%s` wasn't recognised.", e.Input)
	}
	return "Donation pledges must be a positive number."
}

// AlreadyProcessedError marks an invoicing attempt for a project whose
// invoices were already sent. The original timestamp is part of the message
// so the operation is an idempotent no-op from the caller's perspective.
type AlreadyProcessedError struct {
	SentAt int64
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("Invoices for this project were sent on %s.", internal.FormatUnix(e.SentAt))
}

// UnresolvedMemberError blocks invoicing while a pledging member has no
// TidyHQ contact mapping, naming the member so an operator can fix it.
type UnresolvedMemberError struct {
	MemberID string
}

func (e *UnresolvedMemberError) Error() string {
	return fmt.Sprintf(
		"%s does not have a Telegram ID associated with their TidyHQ account. Update the field within TidyHQ and try again.",
		internal.Mention(e.MemberID),
	)
}
