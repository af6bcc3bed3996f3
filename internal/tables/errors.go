package tables

import "errors"

// Sentinel errors for table construction and loading.
var (
	// Literal errors
	ErrInvalidLiteral = errors.New("tables: invalid position literal")

	// Movement table errors
	ErrMovementTableIncomplete = errors.New("tables: movement table incomplete")
	ErrNotPermutation          = errors.New("tables: move is not a permutation")
	ErrUnknownMove             = errors.New("tables: unknown move")

	// Distance and path table errors
	ErrMixedClasses = errors.New("tables: positions of different classes in one table")
	ErrInvalidEntry = errors.New("tables: invalid table entry")
)
