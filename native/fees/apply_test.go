package fees

import (
	"math/big"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestComputeFloorsFee(t *testing.T) {
	cases := []struct {
		reward  int64
		percent uint32
		want    int64
	}{
		{reward: 1000, percent: 5, want: 50},
		{reward: 999, percent: 5, want: 49},
		{reward: 19, percent: 5, want: 0},
		{reward: 1000, percent: 0, want: 0},
		{reward: 1000, percent: 100, want: 1000},
		{reward: 0, percent: 5, want: 0},
	}
	for _, tc := range cases {
		got := Compute(big.NewInt(tc.reward), tc.percent)
		if got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Fatalf("Compute(%d, %d) = %s, want %d", tc.reward, tc.percent, got, tc.want)
		}
	}
}

func TestSplitConservesGross(t *testing.T) {
	for _, gross := range []int64{1, 7, 99, 1000, 123457} {
		res := Split(big.NewInt(gross), 3)
		sum := new(big.Int).Add(res.Fee, res.Net)
		if sum.Cmp(big.NewInt(gross)) != 0 {
			t.Fatalf("fee+net = %s, want %d", sum, gross)
		}
	}
	if res := Split(nil, 5); res.Fee.Sign() != 0 || res.Net.Sign() != 0 {
		t.Fatalf("expected zero split for nil gross, got %+v", res)
	}
}

func TestScheduleValidate(t *testing.T) {
	if err := DefaultSchedule().Validate(); err != nil {
		t.Fatalf("default schedule invalid: %v", err)
	}
	bad := DefaultSchedule()
	bad.GigPercent = 101
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected percent above 100 to be rejected")
	}
	bad = DefaultSchedule()
	bad.BountyTiming = "later"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected unknown timing to be rejected")
	}
}

func TestSchedulePercentLookup(t *testing.T) {
	s := DefaultSchedule()
	if pct, ok := s.Percent(" GIG "); !ok || pct != DefaultGigPercent {
		t.Fatalf("unexpected gig percent %d (ok=%v)", pct, ok)
	}
	if _, ok := s.Percent("lottery"); ok {
		t.Fatalf("expected unknown domain to be absent")
	}
}

func TestTimingDecodesFromTOML(t *testing.T) {
	var cfg struct {
		Timing Timing `toml:"Timing"`
	}
	if _, err := toml.Decode(`Timing = "Creation"`, &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Timing != TimingCreation {
		t.Fatalf("unexpected timing %q", cfg.Timing)
	}
	if _, err := toml.Decode(`Timing = "eventually"`, &cfg); err == nil {
		t.Fatalf("expected unsupported timing to fail decoding")
	}
}
