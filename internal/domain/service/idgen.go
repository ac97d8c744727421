package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Identifier generation produces human-legible, probabilistically unique
// identifiers: a type prefix, a date or timestamp component, and a short
// random hex suffix. There is no central sequence; the persistence layer's
// unique constraints are the final arbiter, and callers treat a uniqueness
// violation as retryable.

const (
	submissionPrefix  = "SUB"
	contractPrefix    = "CTR"
	transactionPrefix = "TRX"

	suffixBytes = 3 // 6 hex digits
)

// NewSubmissionID generates a draft submission identifier, e.g.
// SUB-20260829-4F09A1.
func NewSubmissionID(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", submissionPrefix, now.UTC().Format("20060102"), randSuffix())
}

// NewContractNumber generates a contract number assigned at activation, e.g.
// CTR-20260829-9C41BE.
func NewContractNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", contractPrefix, now.UTC().Format("20060102"), randSuffix())
}

// NewTransactionNumber generates a ledger transaction number, e.g.
// TRX-20260829143015-D2704C.
func NewTransactionNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", transactionPrefix, now.UTC().Format("20060102150405"), randSuffix())
}

func randSuffix() string {
	buf := make([]byte, suffixBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process has lost its entropy source;
		// an identifier derived from the clock keeps the caller moving and
		// the DB unique constraint still guards collisions.
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("%X", buf)
}
