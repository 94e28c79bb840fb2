package partials

// ConditionsModel is an auxiliary environment model (e.g. flight conditions) cached per time.
type ConditionsModel interface {
	// UpdateConditions recomputes the derived quantities for time t, unless they already are for t.
	UpdateConditions(t float64) error
	// ResetCurrentTime sets the cached time, use NaT to force a recomputation.
	ResetCurrentTime(t float64)
}

// ForceModel is an acceleration model cached per time.
type ForceModel interface {
	// UpdateMembers recomputes the acceleration for time t, unless it already is for t.
	UpdateMembers(t float64) error
	// ResetTime sets the cached time, use NaT to force a recomputation.
	ResetTime(t float64)
	// Acceleration returns the acceleration computed by the last update.
	Acceleration() []float64
}
