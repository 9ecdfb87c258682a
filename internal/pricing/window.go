package pricing

import "time"

// Window is the half-open interval [From, Until) around an evaluation date in which no
// candidate list crosses a validity bound, so the outcome cannot change with the date alone.
// Nil bounds are open.
type Window struct {
	From  *time.Time
	Until *time.Time
}

// Contains reports whether at falls inside the window.
func (w Window) Contains(at time.Time) bool {
	if w.From != nil && at.Before(*w.From) {
		return false
	}
	if w.Until != nil && !at.Before(*w.Until) {
		return false
	}
	return true
}

// StableWindow returns the window around evaluationDate bounded by the nearest
// validFrom/validTo edges of the candidates' price lists. Both list bounds are inclusive, so
// a validTo edge closes the window one nanosecond after it.
func StableWindow(candidates []Entry, evaluationDate time.Time) Window {
	var w Window
	for _, entry := range candidates {
		list := entry.PriceList
		if list == nil {
			continue
		}
		if list.ValidFrom != nil {
			if list.ValidFrom.After(evaluationDate) {
				w.Until = earliest(w.Until, *list.ValidFrom)
			} else {
				w.From = latest(w.From, *list.ValidFrom)
			}
		}
		if list.ValidTo != nil {
			edge := list.ValidTo.Add(time.Nanosecond)
			if edge.After(evaluationDate) {
				w.Until = earliest(w.Until, edge)
			} else {
				w.From = latest(w.From, edge)
			}
		}
	}
	return w
}

func earliest(current *time.Time, candidate time.Time) *time.Time {
	if current == nil || candidate.Before(*current) {
		return &candidate
	}
	return current
}

func latest(current *time.Time, candidate time.Time) *time.Time {
	if current == nil || candidate.After(*current) {
		return &candidate
	}
	return current
}
