package credential

import (
	"fmt"

	"roadtrip/internal/config"
)

// Open builds the store selected by cfg. The returned close func is never nil.
func Open(cfg config.CredentialConfig) (Store, func() error, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(""), func() error { return nil }, nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.Path, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential backend: %s", cfg.Backend)
	}
}
