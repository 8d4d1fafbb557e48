package haptic

import (
	"errors"

	"haptic-go/internal/model"
)

// Validation failures. ErrInvalidCategory and ErrInvalidStepKind are shared with
// the model package so decode-time and validate-time failures match under errors.Is.
var (
	ErrInvalidCategory = model.ErrInvalidCategory
	ErrInvalidStepKind = model.ErrInvalidStepKind
	ErrInvalidRepeat   = errors.New("repeat must be at least 1")
	ErrInvalidName     = errors.New("pattern name must not be empty")
)

// ErrDuplicateIdentifier is returned by Database.InsertPattern when the id is already taken.
var ErrDuplicateIdentifier = errors.New("duplicate pattern identifier")

// ErrNotFound is returned by operations that cannot report absence as a value.
var ErrNotFound = errors.New("pattern not found")
