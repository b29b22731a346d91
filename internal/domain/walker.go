package domain

// Walker is a single simulated entity.
// Location always lies within [0, domainSize).
type Walker struct {
	// Location is the current position in the global domain.
	Location int `json:"location"`

	// StepsRemaining is the number of unit steps left in the walk.
	StepsRemaining int `json:"steps_remaining"`
}
