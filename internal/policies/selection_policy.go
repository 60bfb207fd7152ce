package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"glbindgen/internal/types"
)

// ExcludeScope narrows an exclude pattern to one kind of registry name.
// Patterns without a scope prefix apply to every kind.
type ExcludeScope string

const (
	ExcludeScopeType    ExcludeScope = "type"
	ExcludeScopeEnum    ExcludeScope = "enum"
	ExcludeScopeCommand ExcludeScope = "command"
	ExcludeScopeGroup   ExcludeScope = "group"
)

// SelectionPolicy decides which groups and clauses of a registry a target
// resolves, and which names it never emits.
type SelectionPolicy struct {
	Selection types.Selection

	maxVersion    *pep440.Version
	exactByScope  map[ExcludeScope]map[string]struct{}
	exactAny      map[string]struct{}
	prefixByScope map[ExcludeScope][]string
	prefixAny     []string
}

func NewSelectionPolicy(selection types.Selection) (SelectionPolicy, error) {
	policy := SelectionPolicy{Selection: selection}
	if selection.RemovalScope == "" {
		policy.Selection.RemovalScope = types.RemovalScopeGroup
	}
	switch policy.Selection.RemovalScope {
	case types.RemovalScopeGroup, types.RemovalScopeRegistry:
	default:
		return SelectionPolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid removal scope: %s", selection.RemovalScope))
	}
	if value := strings.TrimSpace(selection.MaxVersion); value != "" {
		parsed, err := pep440.Parse(value)
		if err != nil {
			return SelectionPolicy{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid max version: %s", value)).
				WithCause(err)
		}
		policy.maxVersion = &parsed
	}
	policy.compile()
	return policy, nil
}

// MatchesFeature reports whether a feature belongs to the selected API and
// does not exceed the configured maximum version.
func (p SelectionPolicy) MatchesFeature(group types.GroupSpec) (bool, error) {
	if group.API != p.Selection.API {
		return false, nil
	}
	if p.Excluded(ExcludeScopeGroup, group.Name) {
		return false, nil
	}
	if p.maxVersion == nil || strings.TrimSpace(group.Number) == "" {
		return true, nil
	}
	number, err := pep440.Parse(strings.TrimSpace(group.Number))
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("feature %s has invalid number %q", group.Name, group.Number)).
			WithCause(err)
	}
	return number.Compare(*p.maxVersion) <= 0, nil
}

func (p SelectionPolicy) MatchesExtension(group types.GroupSpec) bool {
	if p.Excluded(ExcludeScopeGroup, group.Name) {
		return false
	}
	return group.SupportsToken(p.Selection.Supported)
}

// HonorsClause reports whether a require or remove clause applies to the
// selected profile and API.
func (p SelectionPolicy) HonorsClause(clause types.Clause) bool {
	if clause.Profile != "" && clause.Profile != p.Selection.Profile {
		return false
	}
	if clause.API != "" && clause.API != p.Selection.API {
		return false
	}
	return true
}

func (p SelectionPolicy) RemovalScope() types.RemovalScope {
	return p.Selection.RemovalScope
}

func (p SelectionPolicy) Strict() bool {
	return p.Selection.Strict
}

// Excluded reports whether name is on the deny list for the given scope.
func (p SelectionPolicy) Excluded(scope ExcludeScope, name string) bool {
	if name == "" {
		return false
	}
	if _, ok := p.exactAny[name]; ok {
		return true
	}
	if _, ok := p.exactByScope[scope][name]; ok {
		return true
	}
	for _, prefix := range p.prefixAny {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	for _, prefix := range p.prefixByScope[scope] {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ExcludedCommand also honors the command's pointer typedef name, which the
// header grammar uses as the exclusion key.
func (p SelectionPolicy) ExcludedCommand(command types.Command) bool {
	if p.Excluded(ExcludeScopeCommand, command.Name) {
		return true
	}
	return p.Excluded(ExcludeScopeType, command.PointerType)
}

type excludePattern struct {
	scope  *ExcludeScope
	prefix bool
	name   string
}

func (p *SelectionPolicy) compile() {
	p.exactByScope = map[ExcludeScope]map[string]struct{}{}
	p.exactAny = map[string]struct{}{}
	p.prefixByScope = map[ExcludeScope][]string{}
	p.prefixAny = nil
	for _, raw := range p.Selection.Exclude {
		pattern, ok := parseExcludePattern(raw)
		if !ok {
			continue
		}
		switch {
		case pattern.scope == nil && pattern.prefix:
			p.prefixAny = append(p.prefixAny, pattern.name)
		case pattern.scope == nil:
			p.exactAny[pattern.name] = struct{}{}
		case pattern.prefix:
			p.prefixByScope[*pattern.scope] = append(p.prefixByScope[*pattern.scope], pattern.name)
		default:
			if p.exactByScope[*pattern.scope] == nil {
				p.exactByScope[*pattern.scope] = map[string]struct{}{}
			}
			p.exactByScope[*pattern.scope][pattern.name] = struct{}{}
		}
	}
}

func parseExcludePattern(raw string) (excludePattern, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "*" {
		return excludePattern{}, false
	}
	pattern := excludePattern{}
	if parts := strings.SplitN(trimmed, ":", 2); len(parts) == 2 {
		scope, ok := parseExcludeScope(parts[0])
		if !ok {
			return excludePattern{}, false
		}
		pattern.scope = &scope
		trimmed = strings.TrimSpace(parts[1])
	}
	if strings.HasSuffix(trimmed, "*") {
		pattern.prefix = true
		trimmed = strings.TrimSuffix(trimmed, "*")
	}
	if trimmed == "" {
		return excludePattern{}, false
	}
	pattern.name = trimmed
	return pattern, true
}

func parseExcludeScope(token string) (ExcludeScope, bool) {
	switch ExcludeScope(strings.ToLower(strings.TrimSpace(token))) {
	case ExcludeScopeType:
		return ExcludeScopeType, true
	case ExcludeScopeEnum:
		return ExcludeScopeEnum, true
	case ExcludeScopeCommand:
		return ExcludeScopeCommand, true
	case ExcludeScopeGroup:
		return ExcludeScopeGroup, true
	default:
		return "", false
	}
}
