package types

import "strings"

type Type struct {
	Name        string
	Declaration string
	Requires    string
	API         string
}

// IsMarker reports whether the type only exists to be traversed for its
// Requires chain and must never be emitted.
func (t Type) IsMarker() bool {
	return strings.TrimSpace(t.Declaration) == ""
}

type Enum struct {
	Name   string
	Value  string
	Tag    EnumTag
	Groups []string
	API    string
}

type Param struct {
	Declaration string
	Name        string
	Requires    string
}

type Command struct {
	Name           string
	ReturnType     string
	ReturnRequires string
	Params         []Param
	// PointerType is the function pointer typedef used by header-grammar
	// registries. Empty for structured registries.
	PointerType string
	API         string
}

// Clause is a single <require> or <remove> element.
type Clause struct {
	Profile  string
	API      string
	Comment  string
	Types    []string
	Enums    []string
	Commands []string
}

func (c Clause) IsEmpty() bool {
	return len(c.Types) == 0 && len(c.Enums) == 0 && len(c.Commands) == 0
}

// GroupSpec describes a feature or an extension as declared in the registry.
type GroupSpec struct {
	Kind      GroupKind
	Name      string
	API       string
	Number    string
	Supported []string
	Require   []Clause
	Remove    []Clause
}

func (g GroupSpec) SupportsToken(token string) bool {
	for _, supported := range g.Supported {
		if supported == token {
			return true
		}
	}
	return false
}

type Registry struct {
	Source     string
	Types      []Type
	Enums      []Enum
	Commands   []Command
	Features   []GroupSpec
	Extensions []GroupSpec
}

// ResolvedGroup is the set of symbols a group newly introduces. The pointers
// reference definitions owned by the symbol catalog.
type ResolvedGroup struct {
	Name     string
	Kind     GroupKind
	Types    []*Type
	Enums    []*Enum
	Commands []*Command
}

func (g ResolvedGroup) IsEmpty() bool {
	return len(g.Types) == 0 && len(g.Enums) == 0 && len(g.Commands) == 0
}

func (g ResolvedGroup) CommandNames() []string {
	names := make([]string, 0, len(g.Commands))
	for _, command := range g.Commands {
		names = append(names, command.Name)
	}
	return names
}

// UnknownReference records a clause that named a symbol the catalog does not
// define.
type UnknownReference struct {
	Group string
	Kind  SymbolKind
	Name  string
}
