package domain

import (
	"fmt"
	"math"
)

// Policy names accepted in settings.
const (
	PolicyBucket      = "bucket"
	PolicyExponential = "exponential"
)

// MaxLevel caps the level of any policy, so that absurd XP totals stay representable.
const MaxLevel = math.MaxInt32

// ThresholdPolicy maps levels to the minimum total XP needed to reach them.
// Threshold must be strictly increasing in the level and Threshold(0) must be 0.
type ThresholdPolicy interface {
	Name() string
	Threshold(level int) float64
	Level(totalXP float64) int
}

// BucketPolicy gives every level the same width: Threshold(L) = L * Size.
type BucketPolicy struct {
	Size float64
}

// NewBucketPolicy validates the bucket size.
func NewBucketPolicy(size float64) (*BucketPolicy, error) {
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("%w: bucket size must be positive, got %v", ErrConfiguration, size)
	}
	return &BucketPolicy{Size: size}, nil
}

func (p *BucketPolicy) Name() string { return PolicyBucket }

func (p *BucketPolicy) Threshold(level int) float64 {
	if level <= 0 {
		return 0
	}
	return float64(level) * p.Size
}

func (p *BucketPolicy) Level(totalXP float64) int {
	if !(totalXP > 0) {
		return 0
	}
	q := math.Floor(totalXP / p.Size)
	if q >= MaxLevel {
		return MaxLevel
	}
	level := int(q)
	// Correct for float rounding so level always agrees with Threshold.
	for level > 0 && p.Threshold(level) > totalXP {
		level--
	}
	for level < MaxLevel && p.Threshold(level+1) <= totalXP {
		level++
	}
	return level
}

// ExponentialPolicy makes each level Multiplier times as expensive as the previous one.
// Level 0 is the entry floor at 0 XP, and Threshold(L) = floor(Base * Multiplier^L) for L >= 1.
type ExponentialPolicy struct {
	Base       float64
	Multiplier float64
}

// NewExponentialPolicy validates that the resulting curve is strictly increasing.
// Base*Multiplier >= 1 keeps Threshold(1) above the floor, and
// Base*Multiplier*(Multiplier-1) >= 1 keeps consecutive floored thresholds at least one XP apart.
func NewExponentialPolicy(base, multiplier float64) (*ExponentialPolicy, error) {
	switch {
	case !(base > 0) || math.IsInf(base, 0):
		return nil, fmt.Errorf("%w: base XP must be positive, got %v", ErrConfiguration, base)
	case !(multiplier > 1) || math.IsInf(multiplier, 0):
		return nil, fmt.Errorf("%w: multiplier must be greater than 1, got %v", ErrConfiguration, multiplier)
	case base*multiplier < 1:
		return nil, fmt.Errorf("%w: base %v with multiplier %v leaves level 1 at 0 XP", ErrConfiguration, base, multiplier)
	case base*multiplier*(multiplier-1) < 1:
		return nil, fmt.Errorf("%w: base %v with multiplier %v does not grow by a whole XP per level", ErrConfiguration, base, multiplier)
	}
	return &ExponentialPolicy{Base: base, Multiplier: multiplier}, nil
}

func (p *ExponentialPolicy) Name() string { return PolicyExponential }

func (p *ExponentialPolicy) Threshold(level int) float64 {
	if level <= 0 {
		return 0
	}
	return math.Floor(p.Base * math.Pow(p.Multiplier, float64(level)))
}

// Level scans the curve upwards. Thresholds grow geometrically, so the scan is short;
// it stops where the curve overflows to +Inf.
func (p *ExponentialPolicy) Level(totalXP float64) int {
	if !(totalXP > 0) {
		return 0
	}
	level := 0
	for level < MaxLevel {
		next := p.Threshold(level + 1)
		if next > totalXP || math.IsInf(next, 1) {
			break
		}
		level++
	}
	return level
}

// NewPolicy builds the named policy. bucketSize is used by the bucket policy,
// base and multiplier by the exponential one.
func NewPolicy(name string, bucketSize, base, multiplier float64) (ThresholdPolicy, error) {
	switch name {
	case PolicyBucket:
		p, err := NewBucketPolicy(bucketSize)
		if err != nil {
			return nil, err
		}
		return p, nil
	case PolicyExponential:
		p, err := NewExponentialPolicy(base, multiplier)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: unknown level policy %q", ErrConfiguration, name)
}

// XPState is the level progression derived from a stats record.
type XPState struct {
	Policy        string  `json:"policy"`
	TotalXP       float64 `json:"total_xp"`
	Level         int     `json:"level"`
	CurrentXP     float64 `json:"current_xp"`
	XPToNext      float64 `json:"xp_to_next"`
	NextThreshold float64 `json:"next_threshold"`
	// Progress is CurrentXP as a fraction of the current level band, in [0, 1).
	// It is 1 only at the top of the curve.
	Progress float64 `json:"progress"`
}

// ComputeState derives the level progression for the given stats.
// It is pure: the same arguments always produce the same state.
func ComputeState(stats ContributionStats, weights Weights, policy ThresholdPolicy) XPState {
	return StateForXP(ComputeTotalXP(stats, weights), policy)
}

// StateForXP derives the level progression for an already computed XP total.
// Negative and NaN totals count as 0, +Inf as the largest finite total.
func StateForXP(totalXP float64, policy ThresholdPolicy) XPState {
	switch {
	case !(totalXP > 0):
		totalXP = 0
	case math.IsInf(totalXP, 1):
		totalXP = math.MaxFloat64
	}
	level := policy.Level(totalXP)
	floor := policy.Threshold(level)
	next := policy.Threshold(level + 1)
	current := totalXP - floor
	band := next - floor

	state := XPState{
		Policy:        policy.Name(),
		TotalXP:       totalXP,
		Level:         level,
		CurrentXP:     current,
		XPToNext:      next - totalXP,
		NextThreshold: next,
	}
	if level >= MaxLevel || math.IsInf(next, 1) {
		// Top of the curve: there is no next level to report.
		state.XPToNext, state.NextThreshold, state.Progress = 0, floor, 1
		return state
	}
	if band > 0 {
		state.Progress = current / band
	}
	return state
}
