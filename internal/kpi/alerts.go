package kpi

// Tier boundaries below are product-defined literals. They are applied as
// written, never re-derived from data.

// marginAlert grades net margin: 25 excellent, 20 good, 15 acceptable,
// below critical. Both excellent and good render as success badges.
func marginAlert(margin float64) Alert {
	switch {
	case margin >= 25, margin >= 20:
		return AlertSuccess
	case margin >= 15:
		return AlertWarning
	default:
		return AlertDanger
	}
}

// delinquencyAlert grades overdue revenue share.
func delinquencyAlert(rate float64) Alert {
	switch {
	case rate <= 3:
		return AlertSuccess
	case rate <= 5:
		return AlertWarning
	default:
		return AlertDanger
	}
}

// cashAlert grades monthly cash generation by its sign.
func cashAlert(value float64) Alert {
	switch {
	case value > 0:
		return AlertSuccess
	case value == 0:
		return AlertWarning
	default:
		return AlertDanger
	}
}

// changeAlert grades growth metrics by their month-over-month movement.
func changeAlert(change float64, undefined bool) Alert {
	if undefined {
		return AlertWarning
	}
	if change >= 0 {
		return AlertSuccess
	}
	return AlertWarning
}

// expenseAlert grades expense growth, where shrinking is the good case.
func expenseAlert(change float64, undefined bool) Alert {
	switch {
	case undefined:
		return AlertWarning
	case change <= 0:
		return AlertSuccess
	case change <= 5:
		return AlertWarning
	default:
		return AlertDanger
	}
}

// targetAlert compares a value against its goal. lowerIsBetter flips the
// comparison for cost-style metrics. Without a target the tier is neutral.
func targetAlert(value, target float64, lowerIsBetter bool) Alert {
	if target == 0 {
		return AlertSuccess
	}
	if lowerIsBetter {
		switch {
		case value <= target:
			return AlertSuccess
		case value <= target*1.1:
			return AlertWarning
		default:
			return AlertDanger
		}
	}
	switch {
	case value >= target:
		return AlertSuccess
	case value >= target*0.9:
		return AlertWarning
	default:
		return AlertDanger
	}
}
