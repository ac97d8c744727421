package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// ContractStatus – immutable value object
// ---------------------------------------------------------------------------

// ContractStatus represents the lifecycle stage of a loan contract.
type ContractStatus struct {
	value string
}

const (
	contractStatusPendingActivation = "PENDING_ACTIVATION"
	contractStatusActive            = "ACTIVE"
	contractStatusClosed            = "CLOSED"
	contractStatusRejected          = "REJECTED"
	contractStatusVoid              = "VOID"
)

var (
	ContractStatusPendingActivation = ContractStatus{value: contractStatusPendingActivation}
	ContractStatusActive            = ContractStatus{value: contractStatusActive}
	ContractStatusClosed            = ContractStatus{value: contractStatusClosed}
	ContractStatusRejected          = ContractStatus{value: contractStatusRejected}
	ContractStatusVoid              = ContractStatus{value: contractStatusVoid}
)

var validContractStatuses = map[string]ContractStatus{
	contractStatusPendingActivation: ContractStatusPendingActivation,
	contractStatusActive:            ContractStatusActive,
	contractStatusClosed:            ContractStatusClosed,
	contractStatusRejected:          ContractStatusRejected,
	contractStatusVoid:              ContractStatusVoid,
}

// NewContractStatus creates a ContractStatus from a raw string.
func NewContractStatus(s string) (ContractStatus, error) {
	v, ok := validContractStatuses[s]
	if !ok {
		return ContractStatus{}, fmt.Errorf("invalid contract status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ContractStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ContractStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ContractStatus) Equal(other ContractStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transition is allowed from the status.
func (s ContractStatus) IsTerminal() bool {
	switch s.value {
	case contractStatusClosed, contractStatusRejected, contractStatusVoid:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// InstallmentStatus – immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus represents the settlement state of one amortization line.
type InstallmentStatus struct {
	value string
}

const (
	installmentStatusUnpaid = "UNPAID"
	installmentStatusPaid   = "PAID"
	installmentStatusLate   = "LATE"
	installmentStatusWaived = "WAIVED"
)

var (
	InstallmentStatusUnpaid = InstallmentStatus{value: installmentStatusUnpaid}
	InstallmentStatusPaid   = InstallmentStatus{value: installmentStatusPaid}
	InstallmentStatusLate   = InstallmentStatus{value: installmentStatusLate}
	InstallmentStatusWaived = InstallmentStatus{value: installmentStatusWaived}
)

var validInstallmentStatuses = map[string]InstallmentStatus{
	installmentStatusUnpaid: InstallmentStatusUnpaid,
	installmentStatusPaid:   InstallmentStatusPaid,
	installmentStatusLate:   InstallmentStatusLate,
	installmentStatusWaived: InstallmentStatusWaived,
}

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	v, ok := validInstallmentStatuses[s]
	if !ok {
		return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s InstallmentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s InstallmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s.value == other.value }

// IsSettled reports whether the line no longer expects a payment.
func (s InstallmentStatus) IsSettled() bool {
	return s.value == installmentStatusPaid || s.value == installmentStatusWaived
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
