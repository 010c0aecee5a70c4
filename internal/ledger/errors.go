package ledger

import "errors"

var (
	// ErrWalletNotFound means a user has no provisioned wallet. Every user is
	// created with one, so this is a data-integrity bug rather than user error.
	ErrWalletNotFound = errors.New("WALLET_NOT_FOUND")

	// ErrInsufficientCredits means the wallet cannot cover a debit.
	ErrInsufficientCredits = errors.New("INSUFFICIENT_CREDITS")

	// ErrInvalidCredits means a grant was asked for a non-positive amount.
	ErrInvalidCredits = errors.New("INVALID_CREDITS")
)

// ErrInvalidPage means a page number or size is out of range.
var ErrInvalidPage = errors.New("INVALID_PAGE")
