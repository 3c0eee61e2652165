package permission

import "fmt"

// Area is a functional category permissions are scoped to. The set is closed:
// grants referencing anything else are rejected at the boundary, never stored.
type Area string

const (
	AreaDocuments  Area = "documents"
	AreaFinance    Area = "finance"
	AreaHR         Area = "hr"
	AreaLegal      Area = "legal"
	AreaOperations Area = "operations"
)

var allAreas = []Area{AreaDocuments, AreaFinance, AreaHR, AreaLegal, AreaOperations}

// Areas returns every known area in a stable order.
func Areas() []Area {
	out := make([]Area, len(allAreas))
	copy(out, allAreas)
	return out
}

func (a Area) Valid() bool {
	for _, known := range allAreas {
		if a == known {
			return true
		}
	}
	return false
}

func (a Area) String() string {
	return string(a)
}

// ParseArea validates an area string coming off the wire or out of a row.
func ParseArea(s string) (Area, error) {
	a := Area(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidArea, s)
	}
	return a, nil
}

// Action is a permission verb, one per grant column.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionEdit, ActionDelete:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}
