package sink

import (
	"fmt"

	"haptic-go/internal/config"
	"haptic-go/internal/haptic"
)

// NewSinkFromConfig creates a Sink implementation based on the export config type.
func NewSinkFromConfig(cfg config.ExportConfig) (haptic.Sink, error) {
	switch cfg.Type {
	case "memory":
		return NewMemorySink(), nil
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem sink requires dir to be set")
		}
		return NewFileSystemSink(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown export type: %s", cfg.Type)
	}
}
