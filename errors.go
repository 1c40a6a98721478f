package wordvecs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a word has no rows in
	// the vocabulary.
	ErrNotFound = errors.New("word not found")

	// ErrDimensionMismatch is matched by every
	// *DimensionMismatchError.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyCoverage is returned when a mean is requested
	// but none of the words resolved.
	ErrEmptyCoverage = errors.New("no words resolved")

	// ErrMaskResolution is matched by every *AnalogyError.
	ErrMaskResolution = errors.New("analogy operand could not be resolved")

	// ErrUnsupportedFormat is returned when a format cannot
	// be used for the requested operation.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidModel is returned when a vocabulary and a
	// storage do not fit together.
	ErrInvalidModel = errors.New("invalid model")
)

// DimensionMismatchError is returned when a vector does
// not have the dimensionality of the model.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (d *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d but got %d", d.Expected, d.Actual)
}

// Is makes errors.Is(err, ErrDimensionMismatch) work.
func (d *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// AnalogyError is returned when an operand of an analogy
// query cannot be resolved.
type AnalogyError struct {
	// Operand is the position of the first unresolved
	// word (0, 1 or 2).
	Operand int
	Word    string
}

func (a *AnalogyError) Error() string {
	return fmt.Sprintf("analogy operand %d (%q) could not be resolved", a.Operand+1, a.Word)
}

// Is makes errors.Is(err, ErrMaskResolution) work.
func (a *AnalogyError) Is(target error) bool {
	return target == ErrMaskResolution
}

// LoadError is returned when a model cannot be loaded.
type LoadError struct {
	Path   string
	Format Format
	Err    error
}

func (l *LoadError) Error() string {
	return fmt.Sprintf("load %s model %s: %s", l.Format, l.Path, l.Err)
}

func (l *LoadError) Unwrap() error {
	return l.Err
}
