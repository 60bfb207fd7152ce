package types

// Selection picks the features, extensions and clauses a target resolves.
type Selection struct {
	API          string       `yaml:"api,omitempty"`
	Profile      string       `yaml:"profile,omitempty"`
	Supported    string       `yaml:"supported,omitempty"`
	Exclude      []string     `yaml:"exclude,omitempty"`
	MaxVersion   string       `yaml:"max_version,omitempty"`
	RemovalScope RemovalScope `yaml:"removal_scope,omitempty"`
	Strict       bool         `yaml:"strict,omitempty"`
}

// HeaderGrammar configures the regex-based header parser. GroupPattern must
// capture the group name and the group body; TypePattern and NamePattern
// capture the pointer typedef name and the exported symbol name.
type HeaderGrammar struct {
	GroupPattern  string `yaml:"group_pattern"`
	TypePattern   string `yaml:"type_pattern"`
	NamePattern   string `yaml:"name_pattern"`
	FeaturePrefix string `yaml:"feature_prefix,omitempty"`
}

type RegistrySource struct {
	Path    string         `yaml:"path,omitempty"`
	URL     string         `yaml:"url,omitempty"`
	Format  RegistryFormat `yaml:"format,omitempty"`
	Grammar *HeaderGrammar `yaml:"grammar,omitempty"`
}

// Label names the source in logs and error messages.
func (s RegistrySource) Label() string {
	if s.Path != "" {
		return s.Path
	}
	return s.URL
}

// OutputConfig carries the emission parameters of a target.
type OutputConfig struct {
	Dir            string   `yaml:"dir"`
	Header         string   `yaml:"header,omitempty"`
	Source         string   `yaml:"source,omitempty"`
	HeaderInclude  string   `yaml:"header_include,omitempty"`
	Namespace      string   `yaml:"namespace"`
	InitFunction   string   `yaml:"init_function"`
	IncludeGuard   string   `yaml:"include_guard,omitempty"`
	HeaderIncludes []string `yaml:"header_includes,omitempty"`
	SourceIncludes []string `yaml:"source_includes,omitempty"`
	Brief          string   `yaml:"brief,omitempty"`
	License        string   `yaml:"license,omitempty"`
	Typedefs       string   `yaml:"typedefs,omitempty"`
	// Setup and Teardown surround the extension initializers. Setup may
	// return early, which leaves every extension unsupported.
	Setup           string `yaml:"setup,omitempty"`
	Teardown        string `yaml:"teardown,omitempty"`
	SkipEmptyGroups *bool  `yaml:"skip_empty_groups,omitempty"`
	Format          bool   `yaml:"format,omitempty"`
}

func (o OutputConfig) SkipsEmptyGroups() bool {
	return o.SkipEmptyGroups == nil || *o.SkipEmptyGroups
}

type Target struct {
	Name      string         `yaml:"name"`
	Registry  RegistrySource `yaml:"registry"`
	Selection Selection      `yaml:"selection"`
	Output    OutputConfig   `yaml:"output"`
}

type TargetFile struct {
	Version string   `yaml:"version"`
	Targets []Target `yaml:"targets"`
}
