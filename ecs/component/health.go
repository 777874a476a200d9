package component

type Health struct {
	Max     int
	Current int
}

func (h *Health) Dead() bool {
	return h != nil && h.Current <= 0
}

// Fraction is Current/Max clamped to [0,1]; bars and boss phase checks use it.
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	f := float64(h.Current) / float64(h.Max)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

var HealthComponent = NewComponent[Health]()
