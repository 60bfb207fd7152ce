package core

import (
	"fmt"

	"glbindgen/internal/shared"
	"glbindgen/internal/types"
)

// SymbolCatalog maps names to the definitions of one registry source.
// It is immutable once built.
type SymbolCatalog struct {
	source   string
	types    map[string]*types.Type
	enums    map[string]*types.Enum
	commands map[string]*types.Command
}

// NewSymbolCatalog indexes every definition of reg visible to api. Entries
// restricted to another api are skipped. A name defined twice fails with a
// malformed registry error.
func NewSymbolCatalog(reg types.Registry, api string) (*SymbolCatalog, error) {
	catalog := &SymbolCatalog{
		source:   reg.Source,
		types:    make(map[string]*types.Type, len(reg.Types)),
		enums:    make(map[string]*types.Enum, len(reg.Enums)),
		commands: make(map[string]*types.Command, len(reg.Commands)),
	}
	for i := range reg.Types {
		entry := reg.Types[i]
		if !visibleTo(entry.API, api) {
			continue
		}
		if _, exists := catalog.types[entry.Name]; exists {
			return nil, duplicateDefinition(reg.Source, types.SymbolKindType, entry.Name)
		}
		catalog.types[entry.Name] = &entry
	}
	for i := range reg.Enums {
		entry := reg.Enums[i]
		if !visibleTo(entry.API, api) {
			continue
		}
		if _, exists := catalog.enums[entry.Name]; exists {
			return nil, duplicateDefinition(reg.Source, types.SymbolKindEnum, entry.Name)
		}
		catalog.enums[entry.Name] = &entry
	}
	for i := range reg.Commands {
		entry := reg.Commands[i]
		if !visibleTo(entry.API, api) {
			continue
		}
		if _, exists := catalog.commands[entry.Name]; exists {
			return nil, duplicateDefinition(reg.Source, types.SymbolKindCommand, entry.Name)
		}
		entry.Params = append([]types.Param(nil), entry.Params...)
		catalog.commands[entry.Name] = &entry
	}
	return catalog, nil
}

func (c *SymbolCatalog) Source() string {
	return c.source
}

func (c *SymbolCatalog) LookupType(name string) (*types.Type, bool) {
	entry, ok := c.types[name]
	return entry, ok
}

func (c *SymbolCatalog) LookupEnum(name string) (*types.Enum, bool) {
	entry, ok := c.enums[name]
	return entry, ok
}

func (c *SymbolCatalog) LookupCommand(name string) (*types.Command, bool) {
	entry, ok := c.commands[name]
	return entry, ok
}

// Counts returns the number of types, enums and commands indexed.
func (c *SymbolCatalog) Counts() (int, int, int) {
	return len(c.types), len(c.enums), len(c.commands)
}

func visibleTo(entryAPI string, api string) bool {
	return entryAPI == "" || api == "" || entryAPI == api
}

func duplicateDefinition(source string, kind types.SymbolKind, name string) error {
	return shared.MalformedRegistry(source, fmt.Sprintf("%s %s is defined more than once", kind, name))
}
