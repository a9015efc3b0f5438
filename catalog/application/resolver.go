package application

import (
	"strings"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
)

// Selection is what the user picked as a parent: an identifier when the
// parent list carries one, otherwise the display label.
type Selection struct {
	ID    int64
	Label string
}

func SelectID(id int64) Selection {
	return Selection{ID: id}
}

func SelectLabel(label string) Selection {
	return Selection{Label: label}
}

// IsZero reports whether nothing was selected.
func (s Selection) IsZero() bool {
	return s.ID == 0 && strings.TrimSpace(s.Label) == ""
}

func (s Selection) String() string {
	if s.ID != 0 {
		return "#" + formatID(s.ID)
	}
	return s.Label
}

// Resolve finds the parent record a selection refers to. An identifier is
// matched exactly and never falls back to the label. A label matches the
// first record, in collection order, whose Label is equal to it.
func Resolve[T domain.Record](parents []T, sel Selection) (T, bool) {
	var zero T

	if len(parents) == 0 || sel.IsZero() {
		return zero, false
	}

	if sel.ID != 0 {
		for _, p := range parents {
			if p.GetID() == sel.ID {
				return p, true
			}
		}
		return zero, false
	}

	for _, p := range parents {
		if p.Label() == sel.Label {
			return p, true
		}
	}
	return zero, false
}
