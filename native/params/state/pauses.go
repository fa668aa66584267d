package state

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const pausesKey = "system/pauses"

// Reader exposes the minimal parameter store capabilities required to inspect pause toggles.
type Reader interface {
	ParamStoreGet(name string) ([]byte, bool, error)
}

// View is a snapshot of the persisted pause toggles keyed by module name.
type View map[string]bool

// IsPaused reports whether module is paused in the snapshot.
func (v View) IsPaused(module string) bool { return v[module] }

// Load reads the persisted pause toggles. Missing configuration pauses
// nothing.
func Load(reader Reader) (View, error) {
	if reader == nil {
		return nil, fmt.Errorf("params: reader not configured")
	}
	raw, ok, err := reader.ParamStoreGet(pausesKey)
	if err != nil {
		return nil, fmt.Errorf("params: load pauses: %w", err)
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return View{}, nil
	}
	var payload map[string]bool
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("params: decode pauses: %w", err)
	}
	return View(payload), nil
}
