package domain

import "errors"

// Stable classification codes surfaced to callers. Transport status for
// each code is resolved at the boundary layer, never here.
const (
	CodeWalletNotFound               = "WALLET_NOT_FOUND"
	CodeInsufficientBalance          = "INSUFFICIENT_BALANCE"
	CodeStoreKeeperTransferForbidden = "STORE_KEEPER_TRANSFER_FORBIDDEN"
	CodeTransferNotAuthorized        = "TRANSFER_NOT_AUTHORIZED"
	CodeTransferError                = "TRANSFER_ERROR"
)

var (
	ErrSameWallet       = errors.New("cannot transfer to the same wallet")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrLockTimeout      = errors.New("wallet lock not granted in time")
	ErrTransferNotFound = errors.New("transfer not found")
)

// Error is a classified transfer failure. Code is stable across releases;
// Context carries the ids and amounts involved, for structured logging and
// for the caller's error payload.
type Error struct {
	Context map[string]any
	cause   error
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches classified errors by code, so callers can compare any instance
// against the exported prototypes with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}

	return false
}

// Prototypes for errors.Is comparisons.
var (
	ErrWalletNotFound               = &Error{Code: CodeWalletNotFound, Message: "wallet not found"}
	ErrInsufficientBalance          = &Error{Code: CodeInsufficientBalance, Message: "insufficient balance"}
	ErrStoreKeeperTransferForbidden = &Error{Code: CodeStoreKeeperTransferForbidden, Message: "store keepers cannot send transfers"}
	ErrTransferNotAuthorized        = &Error{Code: CodeTransferNotAuthorized, Message: "transfer not authorized"}
	ErrTransferFailed               = &Error{Code: CodeTransferError, Message: "transfer failed"}
)

// NewWalletNotFoundError reports a wallet id that did not resolve.
func NewWalletNotFoundError(walletID string, context map[string]any) *Error {
	return &Error{
		Code:    CodeWalletNotFound,
		Message: "wallet not found: " + walletID,
		Context: context,
	}
}

// NewInsufficientBalanceError reports the available and required amounts.
func NewInsufficientBalanceError(available, required Money, context map[string]any) *Error {
	if context == nil {
		context = make(map[string]any)
	}

	context["available"] = available.StringFixed()
	context["required"] = required.StringFixed()

	return &Error{
		Code:    CodeInsufficientBalance,
		Message: "insufficient balance: have " + available.StringFixed() + ", need " + required.StringFixed(),
		Context: context,
	}
}

// NewStoreKeeperTransferError reports a transfer attempted by a store
// keeper wallet.
func NewStoreKeeperTransferError(context map[string]any) *Error {
	return &Error{
		Code:    CodeStoreKeeperTransferForbidden,
		Message: "store keepers cannot send transfers",
		Context: context,
	}
}

// NewTransferNotAuthorizedError reports a definitive rejection by the
// external authorizer.
func NewTransferNotAuthorizedError(context map[string]any) *Error {
	return &Error{
		Code:    CodeTransferNotAuthorized,
		Message: "transfer not authorized",
		Context: context,
	}
}

// NewTransferFailedError wraps an unexpected infrastructure failure into
// the single catch-all kind. The cause stays reachable through Unwrap for
// logging but is never exposed in Message.
func NewTransferFailedError(cause error, context map[string]any) *Error {
	return &Error{
		Code:    CodeTransferError,
		Message: "transfer failed",
		Context: context,
		cause:   cause,
	}
}

// IsClassified reports whether err already carries one of the business
// error codes, meaning it must pass through to the caller unmodified.
func IsClassified(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Code {
	case CodeWalletNotFound, CodeInsufficientBalance, CodeStoreKeeperTransferForbidden, CodeTransferNotAuthorized:
		return true
	}

	return false
}
