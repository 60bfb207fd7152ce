package types

type GroupKind string

const (
	GroupKindFeature   GroupKind = "feature"
	GroupKindExtension GroupKind = "extension"
)

type SymbolKind string

const (
	SymbolKindType    SymbolKind = "type"
	SymbolKindEnum    SymbolKind = "enum"
	SymbolKindCommand SymbolKind = "command"
)

// EnumTag selects the storage type an enum constant is emitted with.
type EnumTag string

const (
	EnumTagPlain        EnumTag = ""
	EnumTagUnsigned     EnumTag = "u"
	EnumTagWideUnsigned EnumTag = "ull"
)

type RegistryFormat string

const (
	RegistryFormatXML    RegistryFormat = "xml"
	RegistryFormatHeader RegistryFormat = "header"
)

// RemovalScope controls how feature <remove> clauses are applied.
type RemovalScope string

const (
	// RemovalScopeGroup strips removed names from the removing feature only;
	// later groups may claim them again.
	RemovalScopeGroup RemovalScope = "group"
	// RemovalScopeRegistry applies the union of every matching feature's
	// removals to all groups. Removed names are never claimed.
	RemovalScopeRegistry RemovalScope = "registry"
)
