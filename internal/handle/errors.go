package handle

import "fmt"

// ScopeViolationError is returned when a handle is used after the scope
// that created it has exited.
type ScopeViolationError struct {
	Type       string
	Index      int
	Generation uint64
}

func (e *ScopeViolationError) Error() string {
	return fmt.Sprintf("%s handle used outside its scope (slot %d, generation %d)", e.Type, e.Index, e.Generation)
}

// BorrowConflictError is returned when an object that already has a live
// handle is entered again.
type BorrowConflictError struct {
	Type   string
	HeldAs string
}

func (e *BorrowConflictError) Error() string {
	return fmt.Sprintf("%s is already borrowed by a live %s handle", e.Type, e.HeldAs)
}

// MutabilityError is returned for mutable access through a handle that was
// entered as shared.
type MutabilityError struct {
	Type string
}

func (e *MutabilityError) Error() string {
	return fmt.Sprintf("%s handle does not allow mutable access", e.Type)
}

// TeardownError means a slot changed under a live handle. The arena is
// poisoned afterwards: every later operation returns the same error.
type TeardownError struct {
	Type  string
	Index int
	Want  uint64
	Got   uint64
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("handle teardown mismatch for %s at slot %d: expected generation %d, found %d", e.Type, e.Index, e.Want, e.Got)
}
