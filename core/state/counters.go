package state

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrIDSpaceExhausted is returned once every u32 identifier has been issued.
var ErrIDSpaceExhausted = errors.New("state: identifier space exhausted")

// NextBountyID issues the next bounty identifier. Identifiers start at zero
// and increase by one per allocation; an allocation discarded with the unit of
// work is reissued by the next call.
func (m *Manager) NextBountyID() (uint32, error) {
	return m.nextID(bountyCounterKey)
}

// NextProjectID issues the next project identifier.
func (m *Manager) NextProjectID() (uint32, error) {
	return m.nextID(projectCounterKey)
}

func (m *Manager) peekID(key []byte) (uint32, error) {
	current, err := m.loadBigInt(kvKey(key))
	if err != nil {
		return 0, err
	}
	if current.Sign() < 0 {
		return 0, fmt.Errorf("state: negative counter")
	}
	if current.Cmp(new(big.Int).SetUint64(math.MaxUint32)) > 0 {
		return 0, ErrIDSpaceExhausted
	}
	return uint32(current.Uint64()), nil
}

func (m *Manager) nextID(key []byte) (uint32, error) {
	id, err := m.peekID(key)
	if err != nil {
		return 0, err
	}
	next := new(big.Int).SetUint64(uint64(id) + 1)
	if err := m.writeBigInt(kvKey(key), next); err != nil {
		return 0, err
	}
	return id, nil
}
