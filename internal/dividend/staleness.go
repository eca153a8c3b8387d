package dividend

// StalenessThreshold returns the multiplier applied to the average interval
// before an estimated date is treated as overdue rather than as the provider
// not having refreshed yet. Longer cycles get more slack, and so do payers
// whose ex-dates wander around the month.
func StalenessThreshold(avgInterval float64, pattern ExDividendPattern) float64 {
	base := 1.1
	if avgInterval >= 60 {
		base = 1.2
	}

	// The <2 and <4 bands intentionally share a multiplier.
	var variance float64
	switch {
	case pattern.StdDevDays < 2:
		variance = 1.0
	case pattern.StdDevDays < 4:
		variance = 1.0
	default:
		variance = 1.1
	}

	return base * variance
}
