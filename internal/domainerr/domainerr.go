// Package domainerr defines the error taxonomy shared by all business services.
// Every failed allocation or state transition is reported as one of these kinds
// so that handlers (and retry logic) can react without parsing messages.
package domainerr

import "errors"

// Kind classifies a domain failure.
type Kind int

const (
	// KindNotFound — referenced CAI/turno/venta/factura/cliente does not exist.
	KindNotFound Kind = iota
	// KindInvalidTransition — e.g. cerrar un turno ya cerrado, eliminar un CAI
	// que ya emitió números, eliminar un turno abierto.
	KindInvalidTransition
	// KindExhausted — the CAI block has no remaining correlative numbers.
	KindExhausted
	// KindInactive — CAI deactivated or past its fecha límite de emisión.
	KindInactive
	// KindConflict — two allocation/open attempts raced; the caller may retry.
	KindConflict
)

// Error carries the taxonomy kind plus a user-facing message (Spanish, shown
// verbatim to the cashier). It never wraps internal DB errors.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotFound(msg string) *Error          { return &Error{Kind: KindNotFound, Msg: msg} }
func InvalidTransition(msg string) *Error { return &Error{Kind: KindInvalidTransition, Msg: msg} }
func Exhausted(msg string) *Error         { return &Error{Kind: KindExhausted, Msg: msg} }
func Inactive(msg string) *Error          { return &Error{Kind: KindInactive, Msg: msg} }
func Conflict(msg string) *Error          { return &Error{Kind: KindConflict, Msg: msg} }

// KindOf extracts the kind from an error chain. The second return is false when
// the error is not a domain error (infrastructure failures, context cancellation).
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
