package params

import (
	"bytes"
	"encoding/json"
	"fmt"

	"stallion/config"
	"stallion/core/types"
)

// StoreState captures the subset of state manager capabilities required by the
// parameter helpers.
type StoreState interface {
	ParamStoreSet(name string, value []byte) error
	ParamStoreGet(name string) ([]byte, bool, error)
}

// Platform is the persisted platform configuration record.
type Platform struct {
	Admin      types.Address `json:"admin"`
	FeeAccount types.Address `json:"feeAccount"`
}

// Store provides typed accessors for operator-controlled parameters.
type Store struct {
	state StoreState
}

// NewStore constructs a parameter store wrapper using the supplied state
// backend.
func NewStore(state StoreState) *Store {
	return &Store{state: state}
}

func (s *Store) withState() (StoreState, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("params: state not configured")
	}
	return s.state, nil
}

func (s *Store) setJSON(key string, value interface{}) error {
	state, err := s.withState()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("params: encode %s: %w", key, err)
	}
	return state.ParamStoreSet(key, encoded)
}

func (s *Store) getJSON(key string, dst interface{}) (bool, error) {
	state, err := s.withState()
	if err != nil {
		return false, err
	}
	raw, ok, err := state.ParamStoreGet(key)
	if err != nil {
		return false, err
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("params: decode %s: %w", key, err)
	}
	return true, nil
}

// SetPauses persists the supplied pause configuration under the canonical
// parameter store key.
func (s *Store) SetPauses(pauses config.Pauses) error {
	return s.setJSON(ParamsKeyPauses, pauses)
}

// Pauses loads the persisted pause configuration. When unset, a zero-value
// configuration is returned.
func (s *Store) Pauses() (config.Pauses, error) {
	var pauses config.Pauses
	if _, err := s.getJSON(ParamsKeyPauses, &pauses); err != nil {
		return config.Pauses{}, err
	}
	return pauses, nil
}

// SetPlatform persists the platform record.
func (s *Store) SetPlatform(p Platform) error {
	return s.setJSON(ParamsKeyPlatform, p)
}

// Platform loads the platform record. The boolean reports whether it was
// ever initialised.
func (s *Store) Platform() (Platform, bool, error) {
	var p Platform
	ok, err := s.getJSON(ParamsKeyPlatform, &p)
	if err != nil {
		return Platform{}, false, err
	}
	return p, ok, nil
}

// FeeAccount returns the configured fee account, or the zero address when
// the platform record is missing.
func (s *Store) FeeAccount() (types.Address, error) {
	p, _, err := s.Platform()
	if err != nil {
		return types.ZeroAddress, err
	}
	return p.FeeAccount, nil
}
