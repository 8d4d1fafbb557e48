package app

import "time"

// Operation identifies one CLI invocation in the log.
// Every log line written during the invocation carries its ID.
type Operation struct {
	Name    string
	Started time.Time
}

// NewOperation creates an Operation started at the given time.
func NewOperation(name string, started time.Time) *Operation {
	return &Operation{Name: name, Started: started}
}

// ID returns "<UTC start>-<name>", e.g. "20240115T103000Z-Play".
func (op *Operation) ID() string {
	id := op.Started.UTC().Format("20060102T150405Z")
	if op.Name != "" {
		id += "-" + op.Name
	}
	return id
}
