package fees

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Domain identifies a product line with its own fee percent.
type Domain string

const (
	DomainBounty Domain = "bounty"
	DomainGig    Domain = "gig"
	DomainJob    Domain = "job"
)

// Default platform fee percents per product line.
const (
	DefaultBountyPercent uint32 = 5
	DefaultGigPercent    uint32 = 3
	DefaultJobPercent    uint32 = 2
)

// ErrInvalidPercent is returned for fee percents above 100.
var ErrInvalidPercent = errors.New("fees: percent out of range")

var hundred = big.NewInt(100)

// NormalizeDomain canonicalises domain identifiers for consistent lookups.
func NormalizeDomain(domain string) Domain {
	return Domain(strings.ToLower(strings.TrimSpace(domain)))
}

// Schedule captures the fixed fee percent per product line together with the
// moment bounty fees are collected.
type Schedule struct {
	BountyPercent uint32
	GigPercent    uint32
	JobPercent    uint32
	BountyTiming  Timing
}

// DefaultSchedule returns the platform defaults: 5% bounty, 3% gig, 2% job,
// bounty fees collected at settlement.
func DefaultSchedule() Schedule {
	return Schedule{
		BountyPercent: DefaultBountyPercent,
		GigPercent:    DefaultGigPercent,
		JobPercent:    DefaultJobPercent,
		BountyTiming:  TimingSettlement,
	}
}

// Validate ensures every percent is within [0, 100] and the timing is known.
func (s Schedule) Validate() error {
	for domain, pct := range map[Domain]uint32{DomainBounty: s.BountyPercent, DomainGig: s.GigPercent, DomainJob: s.JobPercent} {
		if pct > 100 {
			return fmt.Errorf("%w: %s %d", ErrInvalidPercent, domain, pct)
		}
	}
	if !s.BountyTiming.Valid() {
		return fmt.Errorf("fees: unsupported bounty timing %q", s.BountyTiming)
	}
	return nil
}

// Percent resolves the configured percent for the supplied domain.
func (s Schedule) Percent(domain Domain) (uint32, bool) {
	switch NormalizeDomain(string(domain)) {
	case DomainBounty:
		return s.BountyPercent, true
	case DomainGig:
		return s.GigPercent, true
	case DomainJob:
		return s.JobPercent, true
	default:
		return 0, false
	}
}

// Compute returns floor(reward * percent / 100). Nil or non-positive rewards
// yield zero.
func Compute(reward *big.Int, percent uint32) *big.Int {
	if reward == nil || reward.Sign() <= 0 || percent == 0 {
		return big.NewInt(0)
	}
	fee := new(big.Int).Mul(reward, new(big.Int).SetUint64(uint64(percent)))
	return fee.Quo(fee, hundred)
}

// Result summarises a fee evaluation.
type Result struct {
	Gross *big.Int
	Fee   *big.Int
	Net   *big.Int
}

// Split evaluates the fee for gross and returns the fee together with the
// remaining net amount. Gross always equals Fee + Net.
func Split(gross *big.Int, percent uint32) Result {
	result := Result{Gross: big.NewInt(0), Fee: big.NewInt(0), Net: big.NewInt(0)}
	if gross == nil || gross.Sign() <= 0 {
		return result
	}
	result.Gross = new(big.Int).Set(gross)
	result.Fee = Compute(gross, percent)
	result.Net = new(big.Int).Sub(gross, result.Fee)
	return result
}

// PercentOf returns floor(amount * percent / 100) for distribution shares.
// It shares the floor semantics of Compute but is named for its call sites.
func PercentOf(amount *big.Int, percent uint32) *big.Int {
	return Compute(amount, percent)
}
