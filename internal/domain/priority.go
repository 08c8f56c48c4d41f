package domain

// Priority is a scheduling hint attached to a session when it starts.
// Goroutines have no priorities, so the hint is only recorded and reported.
type Priority int

// Priority levels, lowest first
const (
	PriorityLowest      Priority = 0
	PriorityBelowNormal Priority = 1
	PriorityNormal      Priority = 2
	PriorityAboveNormal Priority = 3
	PriorityHighest     Priority = 4

	PriorityDefault = PriorityBelowNormal
)

// PriorityName returns a human-readable name for the priority level
func PriorityName(priority Priority) string {
	switch priority {
	case PriorityLowest:
		return "lowest"
	case PriorityBelowNormal:
		return "below_normal"
	case PriorityNormal:
		return "normal"
	case PriorityAboveNormal:
		return "above_normal"
	case PriorityHighest:
		return "highest"
	default:
		return "unknown"
	}
}

// String returns the priority name
func (p Priority) String() string {
	return PriorityName(p)
}
