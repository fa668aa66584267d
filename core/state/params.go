package state

import "fmt"

// ParamStoreSet stores a raw parameter value under name.
func (m *Manager) ParamStoreSet(name string, value []byte) error {
	if name == "" {
		return fmt.Errorf("params: name must not be empty")
	}
	return m.put(kvKey(prefixedKey(paramPrefix, []byte(name))), value)
}

// ParamStoreGet returns the raw parameter value stored under name.
func (m *Manager) ParamStoreGet(name string) ([]byte, bool, error) {
	if name == "" {
		return nil, false, fmt.Errorf("params: name must not be empty")
	}
	data, err := m.get(kvKey(prefixedKey(paramPrefix, []byte(name))))
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}
