package state

import (
	"encoding/binary"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"stallion/core/types"
	"stallion/native/bounty"
	"stallion/native/fees"
)

func idBytes(id uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], id)
	return buf[:]
}

func prefixedKey(prefix []byte, suffix []byte) []byte {
	buf := make([]byte, len(prefix)+len(suffix))
	copy(buf, prefix)
	copy(buf[len(prefix):], suffix)
	return buf
}

func bountyStorageKey(id uint32) []byte {
	return ethcrypto.Keccak256(prefixedKey(bountyRecordPrefix, idBytes(id)))
}

func bountyOwnerIndexKey(owner types.Address) []byte {
	return prefixedKey(bountyOwnerPrefix, owner[:])
}

func bountyTokenIndexKey(token string) []byte {
	return prefixedKey(bountyTokenPrefix, []byte(types.NormalizeToken(token)))
}

func bountyApplicantIndexKey(applicant types.Address) []byte {
	return prefixedKey(bountyApplicantPref, applicant[:])
}

type storedShare struct {
	Rank    uint32
	Percent uint32
}

type storedSubmission struct {
	Applicant   [20]byte
	Reference   string
	SubmittedAt uint64
}

type storedBounty struct {
	ID                 uint32
	Owner              [20]byte
	Token              string
	Reward             *big.Int
	Distribution       []storedShare
	SubmissionDeadline uint64
	JudgingDeadline    uint64
	Title              string
	Status             uint8
	Submissions        []storedSubmission
	Winners            [][20]byte
	FeePercent         uint32
	FeeTiming          string
	CreatedAt          uint64
}

func unixToStored(ts int64) uint64 {
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

func newStoredBounty(b *bounty.Bounty) *storedBounty {
	record := &storedBounty{
		ID:                 b.ID,
		Owner:              b.Owner,
		Token:              b.Token,
		Reward:             big.NewInt(0),
		SubmissionDeadline: unixToStored(b.SubmissionDeadline),
		JudgingDeadline:    unixToStored(b.JudgingDeadline),
		Title:              b.Title,
		Status:             uint8(b.Status),
		FeePercent:         b.FeePercent,
		FeeTiming:          string(b.FeeTiming),
		CreatedAt:          unixToStored(b.CreatedAt),
	}
	if b.Reward != nil {
		record.Reward = new(big.Int).Set(b.Reward)
	}
	for _, share := range b.Distribution.Shares() {
		record.Distribution = append(record.Distribution, storedShare{Rank: share.Rank, Percent: share.Percent})
	}
	for _, sub := range b.Submissions {
		record.Submissions = append(record.Submissions, storedSubmission{
			Applicant:   sub.Applicant,
			Reference:   sub.Reference,
			SubmittedAt: unixToStored(sub.SubmittedAt),
		})
	}
	for _, w := range b.Winners {
		record.Winners = append(record.Winners, w)
	}
	return record
}

func (s *storedBounty) toBounty() (*bounty.Bounty, error) {
	shares := make([]bounty.Share, len(s.Distribution))
	for i, share := range s.Distribution {
		shares[i] = bounty.Share{Rank: share.Rank, Percent: share.Percent}
	}
	dist, err := bounty.NewDistribution(shares)
	if err != nil {
		return nil, fmt.Errorf("bounty %d: stored distribution: %w", s.ID, err)
	}
	out := &bounty.Bounty{
		ID:                 s.ID,
		Owner:              s.Owner,
		Token:              s.Token,
		Reward:             big.NewInt(0),
		Distribution:       dist,
		SubmissionDeadline: int64(s.SubmissionDeadline),
		JudgingDeadline:    int64(s.JudgingDeadline),
		Title:              s.Title,
		Status:             bounty.Status(s.Status),
		FeePercent:         s.FeePercent,
		FeeTiming:          fees.Timing(s.FeeTiming),
		CreatedAt:          int64(s.CreatedAt),
	}
	if s.Reward != nil {
		out.Reward = new(big.Int).Set(s.Reward)
	}
	if !out.Status.Valid() {
		return nil, fmt.Errorf("bounty %d: invalid stored status %d", s.ID, s.Status)
	}
	for _, sub := range s.Submissions {
		out.Submissions = append(out.Submissions, bounty.Submission{
			Applicant:   sub.Applicant,
			Reference:   sub.Reference,
			SubmittedAt: int64(sub.SubmittedAt),
		})
	}
	for _, w := range s.Winners {
		out.Winners = append(out.Winners, types.Address(w))
	}
	return out, nil
}

// BountyPut persists the bounty and maintains the owner, token, applicant and
// global indexes.
func (m *Manager) BountyPut(b *bounty.Bounty) error {
	if b == nil {
		return fmt.Errorf("bounty: nil record")
	}
	encoded, err := rlp.EncodeToBytes(newStoredBounty(b))
	if err != nil {
		return err
	}
	if err := m.put(bountyStorageKey(b.ID), encoded); err != nil {
		return err
	}
	id := idBytes(b.ID)
	if err := m.KVAppend(bountyIndexAllKey, id); err != nil {
		return err
	}
	if err := m.KVAppend(bountyOwnerIndexKey(b.Owner), id); err != nil {
		return err
	}
	if err := m.KVAppend(bountyTokenIndexKey(b.Token), id); err != nil {
		return err
	}
	for _, sub := range b.Submissions {
		if err := m.KVAppend(bountyApplicantIndexKey(sub.Applicant), id); err != nil {
			return err
		}
	}
	return nil
}

// BountyGet loads the bounty with the supplied identifier.
func (m *Manager) BountyGet(id uint32) (*bounty.Bounty, bool, error) {
	data, err := m.get(bountyStorageKey(id))
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	record := new(storedBounty)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, false, err
	}
	b, err := record.toBounty()
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// BountyDelete removes the bounty record and every index entry pointing at it.
func (m *Manager) BountyDelete(id uint32) error {
	b, ok, err := m.BountyGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	key := idBytes(id)
	if err := m.KVRemove(bountyIndexAllKey, key); err != nil {
		return err
	}
	if err := m.KVRemove(bountyOwnerIndexKey(b.Owner), key); err != nil {
		return err
	}
	if err := m.KVRemove(bountyTokenIndexKey(b.Token), key); err != nil {
		return err
	}
	for _, sub := range b.Submissions {
		if err := m.KVRemove(bountyApplicantIndexKey(sub.Applicant), key); err != nil {
			return err
		}
	}
	return m.remove(bountyStorageKey(id))
}

func (m *Manager) idIndex(key []byte) ([]uint32, error) {
	list, err := m.kvList(key)
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, 0, len(list))
	for _, raw := range list {
		if len(raw) != 4 {
			return nil, fmt.Errorf("state: malformed index entry")
		}
		ids = append(ids, binary.BigEndian.Uint32(raw))
	}
	return ids, nil
}

// BountyIDs lists every stored bounty in creation order.
func (m *Manager) BountyIDs() ([]uint32, error) {
	return m.idIndex(bountyIndexAllKey)
}

// BountiesByOwner lists the bounties created by owner.
func (m *Manager) BountiesByOwner(owner types.Address) ([]uint32, error) {
	return m.idIndex(bountyOwnerIndexKey(owner))
}

// BountiesByToken lists the bounties denominated in token.
func (m *Manager) BountiesByToken(token string) ([]uint32, error) {
	return m.idIndex(bountyTokenIndexKey(token))
}

// BountiesByApplicant lists the bounties applicant has submitted to.
func (m *Manager) BountiesByApplicant(applicant types.Address) ([]uint32, error) {
	return m.idIndex(bountyApplicantIndexKey(applicant))
}

// BountiesByStatus scans every stored bounty and returns the identifiers with
// the requested status.
func (m *Manager) BountiesByStatus(status bounty.Status) ([]uint32, error) {
	ids, err := m.BountyIDs()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		b, ok, err := m.BountyGet(id)
		if err != nil {
			return nil, err
		}
		if ok && b.Status == status {
			out = append(out, id)
		}
	}
	return out, nil
}
