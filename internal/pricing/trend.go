package pricing

// Trend direction labels. These match the values stored on price records.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// ComputeTrend classifies a price against its predecessor.
func ComputeTrend(price, previous float64) string {
	switch {
	case price > previous:
		return TrendUp
	case price < previous:
		return TrendDown
	default:
		return TrendFlat
	}
}

// PercentChange returns the percentage move from previous to price.
// A zero previous price yields zero to avoid division blowups on the first
// record of a benchmark.
func PercentChange(price, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (price - previous) / previous * 100
}
