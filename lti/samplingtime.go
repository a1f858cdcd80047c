package lti

import "fmt"

// SamplingTime is a tagged variant distinguishing continuous-time systems
// from discrete-time ones with a fixed sampling period. The zero value is
// continuous time, so a freshly constructed model without an explicit tag is
// continuous. A non-positive period never produces a discrete tag; requesting
// Discrete(0) yields Continuous(), which removes the classic ambiguity
// between "no sampling time set" and "sampling time is zero".
type SamplingTime struct {
	period   float64
	discrete bool
}

// Continuous returns the continuous-time tag.
func Continuous() SamplingTime {
	return SamplingTime{}
}

// Discrete returns a discrete-time tag with the given sampling period.
// Non-positive periods normalize to the continuous tag.
func Discrete(period float64) SamplingTime {
	if period <= 0 {
		return Continuous()
	}
	return SamplingTime{period: period, discrete: true}
}

// IsDiscrete reports whether the tag denotes discrete time.
func (st SamplingTime) IsDiscrete() bool {
	return st.discrete
}

// Period returns the sampling period, 0 for continuous time.
func (st SamplingTime) Period() float64 {
	return st.period
}

// Equal reports whether two tags denote the same time base.
func (st SamplingTime) Equal(other SamplingTime) bool {
	return st.discrete == other.discrete && st.period == other.period
}

// Merge reconciles the time bases of two systems being combined. The
// continuous tag acts as the wildcard: combined with a discrete tag the
// discrete one wins. Two discrete tags must agree on the period; ok is false
// when they do not.
func (st SamplingTime) Merge(other SamplingTime) (merged SamplingTime, ok bool) {
	switch {
	case !st.discrete:
		return other, true
	case !other.discrete:
		return st, true
	case st.period == other.period:
		return st, true
	default:
		return SamplingTime{}, false
	}
}

func (st SamplingTime) String() string {
	if !st.discrete {
		return "continuous"
	}
	return fmt.Sprintf("discrete(Ts=%v)", st.period)
}
