package haptic

import "io"

// Sink stores published device export documents for pickup by actuator drivers.
type Sink interface {
	// Put stores a document under name, replacing any previous document with that name.
	// size is the number of bytes that will be read from r.
	Put(name string, r io.Reader, size int64) error

	// Get writes the named document to w.
	Get(name string, w io.Writer) error

	// List returns the names of all stored documents, sorted.
	List() ([]string, error)

	// ValidateSetup verifies that the sink is accessible and properly configured.
	ValidateSetup() error
}
