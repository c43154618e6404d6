// Package dberr defines the fixed error taxonomy for sqlbridge, modeled on
// the standard database-client exception hierarchy: Error is the root,
// Warning a sibling of the error kinds, InterfaceError and DatabaseError
// direct children of Error, and the six database failure kinds children of
// DatabaseError.
//
// Every failure that crosses the sqlbridge boundary is exactly one *Error.
// Callers catch by category with errors.Is against the exported sentinels:
//
//	if errors.Is(err, dberr.Database) { ... }  // any DatabaseError descendant
//	if errors.Is(err, dberr.Integrity) { ... } // only constraint violations
package dberr

import "fmt"

// Kind is one node in the taxonomy tree.
type Kind int

const (
	// KindError is the root of the taxonomy.
	KindError Kind = iota

	// KindWarning marks non-fatal conditions such as data truncation.
	// Warning is not an error subtype; it sits beside the root.
	KindWarning

	// KindInterface marks misuse of the client surface itself: wrong
	// argument shapes, operations on a closed handle.
	KindInterface

	// KindDatabase is the parent of all backend-originated failures and
	// the fallback when no finer classification applies.
	KindDatabase

	// KindData marks value problems: out of range, invalid cast.
	KindData

	// KindOperational marks connectivity loss, resource exhaustion, and
	// other failures outside the programmer's control.
	KindOperational

	// KindIntegrity marks relational constraint violations.
	KindIntegrity

	// KindInternal marks backend-internal inconsistency, e.g. a stale
	// cursor or out-of-sync transaction.
	KindInternal

	// KindProgramming marks malformed queries or configuration, missing
	// objects, wrong arity.
	KindProgramming

	// KindNotSupported marks use of a feature the backend does not offer.
	KindNotSupported
)

var kindNames = map[Kind]string{
	KindError:        "error",
	KindWarning:      "warning",
	KindInterface:    "interface error",
	KindDatabase:     "database error",
	KindData:         "data error",
	KindOperational:  "operational error",
	KindIntegrity:    "integrity error",
	KindInternal:     "internal error",
	KindProgramming:  "programming error",
	KindNotSupported: "not supported",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// kindParents fixes the taxonomy shape. KindError has no parent; KindWarning
// deliberately does not descend from KindError. This table must not change:
// the tree is a compatibility contract.
var kindParents = map[Kind]Kind{
	KindInterface:    KindError,
	KindDatabase:     KindError,
	KindData:         KindDatabase,
	KindOperational:  KindDatabase,
	KindIntegrity:    KindDatabase,
	KindInternal:     KindDatabase,
	KindProgramming:  KindDatabase,
	KindNotSupported: KindDatabase,
}

// isDescendant reports whether k is ancestor or equal to it.
func (k Kind) isDescendant(ancestor Kind) bool {
	for {
		if k == ancestor {
			return true
		}
		parent, ok := kindParents[k]
		if !ok {
			return false
		}
		k = parent
	}
}

// Error is one classified failure. Message carries the human-readable text
// derived from the backend's own error; Cause, when non-nil, is the raw
// driver error for unwrap-based inspection.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Category sentinels for errors.Is. Matching is by taxonomy: an *Error of a
// given kind matches the sentinel of that kind and of every ancestor kind.
var (
	Err          = &Error{Kind: KindError}
	Warning      = &Error{Kind: KindWarning}
	Interface    = &Error{Kind: KindInterface}
	Database     = &Error{Kind: KindDatabase}
	Data         = &Error{Kind: KindData}
	Operational  = &Error{Kind: KindOperational}
	Integrity    = &Error{Kind: KindIntegrity}
	Internal     = &Error{Kind: KindInternal}
	Programming  = &Error{Kind: KindProgramming}
	NotSupported = &Error{Kind: KindNotSupported}
)

// New returns an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns an *Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind, keeping it reachable via Unwrap. The
// message defaults to the cause's own text when msg is empty.
func Wrap(kind Kind, cause error, msg string) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Unwrap exposes the raw driver error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements taxonomy-aware matching for errors.Is: a target *Error
// matches when its kind is e's kind or an ancestor of it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind.isDescendant(t.Kind)
}
