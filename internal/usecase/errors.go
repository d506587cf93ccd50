package usecase

import "errors"

var (
	// ErrOwnerUnresolved indicates no household profile matched the supplied
	// username.
	ErrOwnerUnresolved = errors.New("owner could not be resolved")
	// ErrOwnerNotFound indicates the owner is not in the household directory.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrRecordNotFound indicates no credential record exists for the identity.
	ErrRecordNotFound = errors.New("credential record not found")
	// ErrRecordLimitExceeded indicates the owner's plan cap on stored records
	// was reached.
	ErrRecordLimitExceeded = errors.New("record limit exceeded")
	// ErrNoPendingRotation indicates promotion was requested with no queued
	// password.
	ErrNoPendingRotation = errors.New("no pending rotation to promote")

	// ErrActionNotFound indicates no active queue action matched the id.
	ErrActionNotFound = errors.New("queue action not found")
	// ErrDuplicatePendingAction indicates an identical action is already
	// pending for the same identity.
	ErrDuplicatePendingAction = errors.New("identical action already pending")
	// ErrQueueLimitExceeded indicates the owner's plan cap on pending actions
	// was reached.
	ErrQueueLimitExceeded = errors.New("queue action limit exceeded")
	// ErrUnknownActionType indicates the supplied action type is outside the
	// supported set.
	ErrUnknownActionType = errors.New("unknown action type")
	// ErrReceiptRequired indicates completion was attempted without a receipt.
	ErrReceiptRequired = errors.New("completion receipt required")

	// ErrActionCodeRequired indicates an override was requested without an
	// action code.
	ErrActionCodeRequired = errors.New("action code required")
	// ErrGuardianApprovalRequired indicates the owner's role gates this
	// action behind a validated guardian override.
	ErrGuardianApprovalRequired = errors.New("guardian approval required")
	// ErrOverrideNotFound indicates no override token exists for the action
	// code.
	ErrOverrideNotFound = errors.New("override token not found")
	// ErrOverrideExpired indicates the override token reached its expiry.
	ErrOverrideExpired = errors.New("override token expired")
	// ErrOverrideScopeMismatch indicates the stored token does not cover the
	// requested scope. The token is cleared as a side effect.
	ErrOverrideScopeMismatch = errors.New("override token scope mismatch")
	// ErrGuardianRequired indicates the acting session lacks the guardian
	// role.
	ErrGuardianRequired = errors.New("guardian role required")
	// ErrGuardianPINMismatch indicates the supplied guardian PIN did not
	// verify.
	ErrGuardianPINMismatch = errors.New("guardian pin mismatch")
)
