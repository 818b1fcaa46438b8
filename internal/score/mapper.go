package score

// Score maps an achieved fraction onto an item's score range:
// (max-min)*achieved + min. Callers validate achieved before calling; the
// mapper itself performs no bounds checks.
func Score(min, max, achieved float64) float64 {
	return (max-min)*achieved + min
}

// PercentageAchieved returns (value-min)/(max-min), the fraction of the grade
// range the value represents. The value must lie within [min, max]; a value
// outside the range means a collaborator handed over inconsistent data, since
// absent/unattempted cases are substituted with 0.0 before reaching here.
func PercentageAchieved(value, max, min float64) (float64, error) {
	if value < min || value > max {
		return 0, faultf("grade %v outside declared range [%v, %v]", value, min, max)
	}
	if max == min {
		return 0, faultf("empty grade range [%v, %v]", min, max)
	}
	return (value - min) / (max - min), nil
}
