package domain

// ImpactMetrics is the fixed-width feature vector derived from a bar series:
// a (volatility%, priceChange%) pair for each of four nested look-ahead
// windows. All windows share bar 0 as their base, so later windows measure
// the cumulative move from the same anchor.
type ImpactMetrics struct {
	Vol5   float64
	Chg5   float64
	Vol30  float64
	Chg30  float64
	Vol60  float64
	Chg60  float64
	VolDay float64
	ChgDay float64
}

// Values returns the metrics in their fixed output order:
// vol5, chg5, vol30, chg30, vol60, chg60, volDay, chgDay.
func (m ImpactMetrics) Values() [8]float64 {
	return [8]float64{m.Vol5, m.Chg5, m.Vol30, m.Chg30, m.Vol60, m.Chg60, m.VolDay, m.ChgDay}
}

// IsZero reports whether every component is zero, which downstream code
// treats as "no market data" rather than a computation failure.
func (m ImpactMetrics) IsZero() bool {
	return m == ImpactMetrics{}
}
