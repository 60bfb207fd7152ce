package core

import "glbindgen/internal/types"

// Claimed records the names already owned by an earlier resolved group.
type Claimed struct {
	Types    *OrderedSet[string]
	Enums    *OrderedSet[string]
	Commands *OrderedSet[string]
}

func NewClaimed() Claimed {
	return Claimed{
		Types:    NewOrderedSet[string](),
		Enums:    NewOrderedSet[string](),
		Commands: NewOrderedSet[string](),
	}
}

func (c Claimed) Has(kind types.SymbolKind, name string) bool {
	switch kind {
	case types.SymbolKindType:
		return c.Types.Contains(name)
	case types.SymbolKindEnum:
		return c.Enums.Contains(name)
	case types.SymbolKindCommand:
		return c.Commands.Contains(name)
	default:
		return false
	}
}

// With returns a copy of c extended with every name group owns. c itself is
// left untouched.
func (c Claimed) With(group types.ResolvedGroup) Claimed {
	next := Claimed{
		Types:    c.Types.Clone(),
		Enums:    c.Enums.Clone(),
		Commands: c.Commands.Clone(),
	}
	next.fold(group)
	return next
}

func (c Claimed) fold(group types.ResolvedGroup) {
	for _, entry := range group.Types {
		c.Types.Add(entry.Name)
	}
	for _, entry := range group.Enums {
		c.Enums.Add(entry.Name)
	}
	for _, entry := range group.Commands {
		c.Commands.Add(entry.Name)
	}
}
