package sink

import (
	"fmt"
	"strings"
)

// checkName rejects names that would escape a flat namespace.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".tmp-") {
		return fmt.Errorf("invalid document name: %q", name)
	}
	return nil
}
