package state

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"stallion/core/types"
	"stallion/native/project"
)

func projectStorageKey(id uint32) []byte {
	return ethcrypto.Keccak256(prefixedKey(projectRecordPrefix, idBytes(id)))
}

func projectOwnerIndexKey(owner types.Address) []byte {
	return prefixedKey(projectOwnerPrefix, owner[:])
}

type storedMilestone struct {
	Order       uint32
	Amount      *big.Int
	Paid        bool
	PaidAt      uint64
	Contributor [20]byte
}

type storedProject struct {
	ID              uint32
	Owner           [20]byte
	Token           string
	Kind            uint8
	TotalReward     *big.Int
	PlatformFee     *big.Int
	RemainingEscrow *big.Int
	Deadline        uint64
	Status          uint8
	Milestones      []storedMilestone
	CreatedAt       uint64
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func newStoredProject(p *project.Project) *storedProject {
	record := &storedProject{
		ID:              p.ID,
		Owner:           p.Owner,
		Token:           p.Token,
		Kind:            uint8(p.Kind),
		TotalReward:     bigOrZero(p.TotalReward),
		PlatformFee:     bigOrZero(p.PlatformFee),
		RemainingEscrow: bigOrZero(p.RemainingEscrow),
		Deadline:        unixToStored(p.Deadline),
		Status:          uint8(p.Status),
		CreatedAt:       unixToStored(p.CreatedAt),
	}
	for _, m := range p.Milestones {
		record.Milestones = append(record.Milestones, storedMilestone{
			Order:       m.Order,
			Amount:      bigOrZero(m.Amount),
			Paid:        m.Paid,
			PaidAt:      unixToStored(m.PaidAt),
			Contributor: m.Contributor,
		})
	}
	return record
}

func (s *storedProject) toProject() (*project.Project, error) {
	out := &project.Project{
		ID:              s.ID,
		Owner:           s.Owner,
		Token:           s.Token,
		Kind:            project.Kind(s.Kind),
		TotalReward:     bigOrZero(s.TotalReward),
		PlatformFee:     bigOrZero(s.PlatformFee),
		RemainingEscrow: bigOrZero(s.RemainingEscrow),
		Deadline:        int64(s.Deadline),
		Status:          project.Status(s.Status),
		CreatedAt:       int64(s.CreatedAt),
	}
	if !out.Kind.Valid() {
		return nil, fmt.Errorf("project %d: invalid stored kind %d", s.ID, s.Kind)
	}
	if !out.Status.Valid() {
		return nil, fmt.Errorf("project %d: invalid stored status %d", s.ID, s.Status)
	}
	for _, m := range s.Milestones {
		out.Milestones = append(out.Milestones, project.Milestone{
			Order:       m.Order,
			Amount:      bigOrZero(m.Amount),
			Paid:        m.Paid,
			PaidAt:      int64(m.PaidAt),
			Contributor: m.Contributor,
		})
	}
	return out, nil
}

// ProjectPut persists the project and indexes it by owner.
func (m *Manager) ProjectPut(p *project.Project) error {
	if p == nil {
		return fmt.Errorf("project: nil record")
	}
	encoded, err := rlp.EncodeToBytes(newStoredProject(p))
	if err != nil {
		return err
	}
	if err := m.put(projectStorageKey(p.ID), encoded); err != nil {
		return err
	}
	return m.KVAppend(projectOwnerIndexKey(p.Owner), idBytes(p.ID))
}

// ProjectGet loads the project with the supplied identifier.
func (m *Manager) ProjectGet(id uint32) (*project.Project, bool, error) {
	data, err := m.get(projectStorageKey(id))
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	record := new(storedProject)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, false, err
	}
	p, err := record.toProject()
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// ProjectsByOwner lists the projects created by owner.
func (m *Manager) ProjectsByOwner(owner types.Address) ([]uint32, error) {
	return m.idIndex(projectOwnerIndexKey(owner))
}
