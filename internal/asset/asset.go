// Package asset is the ledger-side state machine for the domain transaction
// kinds. The host runtime hands each included transaction to the handler
// registered for its asset ID; the handler validates the payload and applies
// the fee transfer between the publisher and the sidechain account.
//
// The kind set is closed (menu, food, profile, news), so handlers are a fixed
// registry rather than an open subclassing surface.
package asset

import (
	"errors"
	"fmt"
)

// Asset IDs and fees as registered on the sidechain. The client-side builder
// variants disagree on some IDs (see config.ChainParams); the sidechain
// registration is the authority here.
const (
	ModuleID       = 2000
	ProfileAssetID = 1020
	FoodAssetID    = 1040
	MenuAssetID    = 1060
	NewsAssetID    = 1080

	// MenuPublicationFee is debited from the restaurant and credited to the
	// sidechain account when a menu is published.
	MenuPublicationFee = 100000000

	maxNameLength        = 200
	maxDescriptionLength = 2000
)

// ErrorKind classifies a validation or apply failure.
type ErrorKind string

const (
	KindEmptyMenu          ErrorKind = "EmptyMenu"
	KindInvalidName        ErrorKind = "InvalidName"
	KindInvalidDescription ErrorKind = "InvalidDescription"
	KindInvalidPrice       ErrorKind = "InvalidPrice"
	KindInvalidDiscount    ErrorKind = "InvalidDiscount"
	KindInvalidType        ErrorKind = "InvalidType"
	KindInvalidCategory    ErrorKind = "InvalidCategory"
	KindMissingImage       ErrorKind = "MissingImage"
	KindInvalidQuantity    ErrorKind = "InvalidQuantity"
	KindMissingField       ErrorKind = "MissingField"
	KindInvalidRecipient   ErrorKind = "InvalidRecipient"
)

// ValidationError reports the first payload violation encountered.
type ValidationError struct {
	Kind   ErrorKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %q: %s", e.Kind, e.Field, e.Reason)
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == kind
}

var (
	// ErrUnknownAsset is returned for asset IDs with no registered handler.
	ErrUnknownAsset = errors.New("no handler registered for asset")
	// ErrNonceMismatch is returned when a transaction's nonce does not equal
	// the sender account's current nonce.
	ErrNonceMismatch = errors.New("transaction nonce does not match account nonce")
	// ErrInsufficientFunds is returned by the debit primitive when a balance
	// would go negative; the whole transaction fails, nothing is applied.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account is the mutable ledger state of one address.
type Account struct {
	Address []byte
	Balance uint64
	Nonce   uint64
}

// StateBatch is the state access the host runtime grants a handler during
// block processing. All mutations within one batch are atomic: the runtime
// commits them together or discards them together. Debit and Credit are the
// runtime's atomic token primitives; handlers must use them instead of
// writing balances directly.
type StateBatch interface {
	GetAccount(address []byte) (Account, error)
	SetAccount(account Account) error
	Debit(address []byte, amount uint64) error
	Credit(address []byte, amount uint64) error
}

// Runtime is the transaction boundary the host provides: the batch given to
// fn is committed iff fn returns nil.
type Runtime interface {
	InBatch(fn func(StateBatch) error) error
}

// ApplyContext carries everything a handler may touch during apply.
type ApplyContext struct {
	SenderAddress    []byte
	SidechainAddress []byte
	Payload          []byte
	State            StateBatch
}

// Handler is the two-operation contract the runtime invokes per transaction
// kind: a pure payload validation and a state-mutating apply.
type Handler interface {
	Name() string
	ID() uint32
	Validate(payload []byte) error
	Apply(ctx ApplyContext) error
}

// transferFee moves the publication fee from the publisher to the sidechain
// account through the atomic debit/credit primitives.
func transferFee(state StateBatch, from, sidechain []byte, fee uint64) error {
	if err := state.Debit(from, fee); err != nil {
		return err
	}
	return state.Credit(sidechain, fee)
}
