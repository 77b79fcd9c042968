package ensemble

import (
	"strings"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Mode selects how ensemble members are trained.
type Mode int

const (
	// Bagging trains every member on a bootstrap resample.
	Bagging Mode = iota
	// RandomForest is Bagging with a random feature subset per member.
	RandomForest
	// ResidualBoost fits each member to the current residuals.
	ResidualBoost
	// ReweightBoost is binary AdaBoost with exponential reweighting.
	ReweightBoost
)

var modeNames = map[Mode]string{
	Bagging:       "bagging",
	RandomForest:  "random_forest",
	ResidualBoost: "residual_boost",
	ReweightBoost: "reweight_boost",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return Bagging, scierrors.NewConfigError("mode", "must be one of bagging, random_forest, residual_boost, reweight_boost", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, scierrors.NewConfigError("mode", "unknown mode", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// bagged reports whether members are trained on bootstrap resamples.
func (m Mode) bagged() bool {
	return m == Bagging || m == RandomForest
}

// Aggregation selects how member predictions are combined.
type Aggregation int

const (
	// AggregationAuto picks the mode's natural aggregation: HardVote for
	// bagged classifiers and WeightedSum otherwise.
	AggregationAuto Aggregation = iota
	// HardVote takes the coefficient-weighted majority of member labels.
	// Ties go to the lowest class code.
	HardVote
	// SoftVote averages member class distributions and takes the arg max.
	SoftVote
	// WeightedSum adds coefficient-scaled member outputs.
	WeightedSum
)

var aggregationNames = map[Aggregation]string{
	AggregationAuto: "auto",
	HardVote:        "hard_vote",
	SoftVote:        "soft_vote",
	WeightedSum:     "weighted_sum",
}

func (a Aggregation) String() string {
	if s, ok := aggregationNames[a]; ok {
		return s
	}
	return "unknown"
}

// ParseAggregation converts an aggregation name into an Aggregation.
// "hard" and "soft" are accepted as short forms.
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(s) {
	case "hard":
		return HardVote, nil
	case "soft":
		return SoftVote, nil
	}
	for a, name := range aggregationNames {
		if strings.EqualFold(s, name) {
			return a, nil
		}
	}
	return AggregationAuto, scierrors.NewConfigError("aggregation", "must be one of auto, hard_vote, soft_vote, weighted_sum", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Aggregation) MarshalText() ([]byte, error) {
	if _, ok := aggregationNames[a]; !ok {
		return nil, scierrors.NewConfigError("aggregation", "unknown aggregation", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Aggregation) UnmarshalText(b []byte) error {
	v, err := ParseAggregation(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// DegeneratePolicy decides what happens when a boosting round cannot
// produce a usable member.
type DegeneratePolicy int

const (
	// StopEarly ends training and returns the ensemble built so far
	// together with a DegenerateRoundError.
	StopEarly DegeneratePolicy = iota
	// SkipRound drops the round, logs a warning and continues.
	SkipRound
	// Clamp keeps the round with its error rate clamped into the open
	// interval (0, 0.5) and logs a warning. Reweight boosting only.
	Clamp
)

var policyNames = map[DegeneratePolicy]string{
	StopEarly: "stop",
	SkipRound: "skip",
	Clamp:     "clamp",
}

func (p DegeneratePolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParseDegeneratePolicy converts a policy name into a DegeneratePolicy.
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return StopEarly, scierrors.NewConfigError("degenerate_policy", "must be one of stop, skip, clamp", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p DegeneratePolicy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, scierrors.NewConfigError("degenerate_policy", "unknown policy", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *DegeneratePolicy) UnmarshalText(b []byte) error {
	v, err := ParseDegeneratePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
