// Package pacterr defines Pactum's stable error tokens.
//
// Follows the sentinel style of pkg/ledger/errors.go and pkg/batch/errors.go,
// extended with a typed *Error that carries one of the PCT_ERR_* tokens so a
// caller can branch on the token without string-matching the message.
package pacterr

import (
	"errors"
	"fmt"
)

// Token is a stable, wire-visible error code.
type Token string

const (
	SigInvalid       Token = "PCT_ERR_SIG_INVALID"
	InvalidPactHash  Token = "PCT_ERR_INVALID_PACT_HASH"
	UnknownEventKind Token = "PCT_ERR_UNKNOWN_EVENT_KIND"
	MissingField     Token = "PCT_ERR_MISSING_FIELD"
	InvalidNumeric   Token = "PCT_ERR_INVALID_NUMERIC"
	SeqReplay        Token = "PCT_ERR_SEQ_REPLAY"
	SeqSkip          Token = "PCT_ERR_SEQ_SKIP"
	InvalidSigner    Token = "PCT_ERR_INVALID_SIGNER"
	DupSigner        Token = "PCT_ERR_DUP_SIGNER"
	OracleIDMismatch Token = "PCT_ERR_ORACLE_ID_MISMATCH"
	ClaimNotAllowed  Token = "PCT_ERR_CLAIM_NOT_ALLOWED"
	QuorumNotMet     Token = "PCT_ERR_QUORUM_NOT_MET"
	InvalidState     Token = "PCT_ERR_INVALID_STATE"
	ReceiptMismatch  Token = "PCT_ERR_RECEIPT_MISMATCH"
)

// Error is a Pactum error carrying a stable token plus a human detail.
type Error struct {
	Token  Token
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Token)
	}
	return fmt.Sprintf("%s: %s", e.Token, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error for token with a formatted detail message.
func New(token Token, format string, args ...interface{}) *Error {
	return &Error{Token: token, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error for token around an underlying error.
func Wrap(token Token, err error, format string, args ...interface{}) *Error {
	return &Error{Token: token, Detail: fmt.Sprintf(format, args...), Err: err}
}

// TokenOf extracts the Token from err if it (or something it wraps) is an
// *Error, and reports whether one was found.
func TokenOf(err error) (Token, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Token, true
	}
	return "", false
}

// Is reports whether err carries the given token.
func Is(err error, token Token) bool {
	t, ok := TokenOf(err)
	return ok && t == token
}
