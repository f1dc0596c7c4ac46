package planner

// varietyState tracks how often each recipe has been selected during one
// composition session. It is created per request and passed through the
// composition call chain; never shared between concurrent generations.
type varietyState struct {
	enabled bool
	uses    map[int64]int
}

func newVarietyState(enabled bool) *varietyState {
	return &varietyState{
		enabled: enabled,
		uses:    make(map[int64]int),
	}
}

// Penalty returns the monotonically increasing score addition for reusing
// a recipe; zero when variety mode is off.
func (v *varietyState) Penalty(recipeID int64) float64 {
	if !v.enabled {
		return 0
	}
	return varietyPenaltyStep * float64(v.uses[recipeID])
}

// NoteUse records a selection
func (v *varietyState) NoteUse(recipeID int64) {
	v.uses[recipeID]++
}
