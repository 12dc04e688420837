package domain

import "time"

// Window is a half-open validity interval [From, To). A zero To means open-ended.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow creates a Window, normalising both ends to UTC.
func NewWindow(from, to time.Time) (Window, error) {
	w := Window{From: from.UTC()}
	if !to.IsZero() {
		w.To = to.UTC()
		if !w.To.After(w.From) {
			return Window{}, ErrInvalidWindow
		}
	}
	return w, nil
}

// OpenEndedFrom creates a Window with no end.
func OpenEndedFrom(from time.Time) Window {
	return Window{From: from.UTC()}
}

// OpenEnded reports whether the window has no end.
func (w Window) OpenEnded() bool {
	return w.To.IsZero()
}

// Contains checks if t falls within the window.
//   - From is inclusive: t >= From
//   - To is exclusive: t < To
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	return w.OpenEnded() || t.Before(w.To)
}
