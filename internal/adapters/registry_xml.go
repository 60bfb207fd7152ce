package adapters

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/ports"
	"glbindgen/internal/shared"
	"glbindgen/internal/types"
)

// RegistryXMLAdapter reads the structured registry grammar. Parsed
// registries are cached by path until the file changes.
type RegistryXMLAdapter struct {
	mu    sync.Mutex
	cache map[string]registryCacheEntry
}

func NewRegistryXMLAdapter() *RegistryXMLAdapter {
	return &RegistryXMLAdapter{cache: map[string]registryCacheEntry{}}
}

type registryCacheEntry struct {
	modTime  time.Time
	registry types.Registry
}

type registryXML struct {
	Types      []mixedContent `xml:"types>type"`
	Enums      []enumXML      `xml:"enums>enum"`
	Commands   []commandXML   `xml:"commands>command"`
	Features   []featureXML   `xml:"feature"`
	Extensions []extensionXML `xml:"extensions>extension"`
}

type enumXML struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr"`
	Group string `xml:"group,attr"`
	API   string `xml:"api,attr"`
}

type commandXML struct {
	API    string         `xml:"api,attr"`
	Proto  mixedContent   `xml:"proto"`
	Params []mixedContent `xml:"param"`
}

type featureXML struct {
	Name    string      `xml:"name,attr"`
	API     string      `xml:"api,attr"`
	Number  string      `xml:"number,attr"`
	Require []clauseXML `xml:"require"`
	Remove  []clauseXML `xml:"remove"`
}

type extensionXML struct {
	Name      string      `xml:"name,attr"`
	Supported string      `xml:"supported,attr"`
	Require   []clauseXML `xml:"require"`
}

type clauseXML struct {
	Profile  string    `xml:"profile,attr"`
	API      string    `xml:"api,attr"`
	Comment  string    `xml:"comment,attr"`
	Types    []nameRef `xml:"type"`
	Enums    []nameRef `xml:"enum"`
	Commands []nameRef `xml:"command"`
}

type nameRef struct {
	Name string `xml:"name,attr"`
}

// mixedContent keeps the character data of an element together with the
// name of the child element each segment appeared in.
type mixedContent struct {
	Attrs    []xml.Attr
	Segments []textSegment
}

type textSegment struct {
	Element string
	Text    string
}

func (m *mixedContent) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m.Attrs = start.Attr
	var stack []string
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			element := ""
			if len(stack) > 0 {
				element = stack[len(stack)-1]
			}
			m.Segments = append(m.Segments, textSegment{Element: element, Text: string(t)})
		}
	}
}

func (m mixedContent) attr(name string) string {
	for _, attr := range m.Attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// text joins the non-blank segments with single spaces, skipping segments
// inside the elements listed in omit.
func (m mixedContent) text(omit ...string) string {
	parts := make([]string, 0, len(m.Segments))
	for _, segment := range m.Segments {
		if containsString(omit, segment.Element) {
			continue
		}
		if value := strings.TrimSpace(segment.Text); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}

func (m mixedContent) child(name string) string {
	for _, segment := range m.Segments {
		if segment.Element == name {
			return strings.TrimSpace(segment.Text)
		}
	}
	return ""
}

func (a *RegistryXMLAdapter) LoadRegistry(ctx context.Context, path string, _ types.Target) (types.Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.Registry{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("registry %s not found", path)).
			WithCause(err)
	}
	a.mu.Lock()
	if entry, ok := a.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		log.Ctx(ctx).Debug().Str("registry", path).Msg("registry cache hit")
		return entry.registry, nil
	}
	a.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return types.Registry{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read registry %s", path)).
			WithCause(err)
	}
	reg, err := a.ParseRegistry(path, bytes.NewReader(content))
	if err != nil {
		return types.Registry{}, err
	}

	a.mu.Lock()
	a.cache[path] = registryCacheEntry{modTime: info.ModTime(), registry: reg}
	a.mu.Unlock()
	log.Ctx(ctx).Debug().
		Str("registry", path).
		Int("types", len(reg.Types)).
		Int("enums", len(reg.Enums)).
		Int("commands", len(reg.Commands)).
		Int("features", len(reg.Features)).
		Int("extensions", len(reg.Extensions)).
		Msg("registry parsed")
	return reg, nil
}

// ParseRegistry decodes a registry document. source only labels errors.
func (a *RegistryXMLAdapter) ParseRegistry(source string, r io.Reader) (types.Registry, error) {
	var doc registryXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return types.Registry{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed registry %s: invalid xml", source)).
			WithCause(err)
	}

	reg := types.Registry{Source: source}
	for _, node := range doc.Types {
		typ, err := parseTypeXML(source, node)
		if err != nil {
			return types.Registry{}, err
		}
		reg.Types = append(reg.Types, typ)
	}
	for _, node := range doc.Enums {
		if strings.TrimSpace(node.Name) == "" {
			return types.Registry{}, shared.MalformedRegistry(source, "enum without name")
		}
		tag, err := parseEnumTag(source, node)
		if err != nil {
			return types.Registry{}, err
		}
		reg.Enums = append(reg.Enums, types.Enum{
			Name:   node.Name,
			Value:  node.Value,
			Tag:    tag,
			Groups: splitNonEmpty(node.Group, ","),
			API:    node.API,
		})
	}
	for _, node := range doc.Commands {
		command, err := parseCommandXML(source, node)
		if err != nil {
			return types.Registry{}, err
		}
		reg.Commands = append(reg.Commands, command)
	}
	for _, node := range doc.Features {
		if strings.TrimSpace(node.Name) == "" {
			return types.Registry{}, shared.MalformedRegistry(source, "feature without name")
		}
		reg.Features = append(reg.Features, types.GroupSpec{
			Kind:    types.GroupKindFeature,
			Name:    node.Name,
			API:     node.API,
			Number:  node.Number,
			Require: convertClauses(node.Require),
			Remove:  convertClauses(node.Remove),
		})
	}
	for _, node := range doc.Extensions {
		if strings.TrimSpace(node.Name) == "" {
			return types.Registry{}, shared.MalformedRegistry(source, "extension without name")
		}
		reg.Extensions = append(reg.Extensions, types.GroupSpec{
			Kind:      types.GroupKindExtension,
			Name:      node.Name,
			Supported: splitNonEmpty(node.Supported, "|"),
			Require:   convertClauses(node.Require),
		})
	}
	return reg, nil
}

// parseTypeXML treats a type carrying a name attribute as a marker; its
// text is a preprocessor include the emitter never writes.
func parseTypeXML(source string, node mixedContent) (types.Type, error) {
	typ := types.Type{
		Requires: node.attr("requires"),
		API:      node.attr("api"),
	}
	if name := node.attr("name"); name != "" {
		typ.Name = name
		return typ, nil
	}
	typ.Name = node.child("name")
	if typ.Name == "" {
		return types.Type{}, shared.MalformedRegistry(source, fmt.Sprintf("type without name: %q", node.text()))
	}
	typ.Declaration = node.text()
	return typ, nil
}

func parseCommandXML(source string, node commandXML) (types.Command, error) {
	name := node.Proto.child("name")
	if name == "" {
		return types.Command{}, shared.MalformedRegistry(source, "command without name")
	}
	command := types.Command{
		Name:           name,
		ReturnType:     node.Proto.text("name"),
		ReturnRequires: node.Proto.child("ptype"),
		API:            node.API,
	}
	for _, param := range node.Params {
		paramName := param.child("name")
		if paramName == "" {
			return types.Command{}, shared.MalformedRegistry(source, fmt.Sprintf("command %s has a parameter without name", name))
		}
		command.Params = append(command.Params, types.Param{
			Declaration: param.text(),
			Name:        paramName,
			Requires:    param.child("ptype"),
		})
	}
	return command, nil
}

func parseEnumTag(source string, node enumXML) (types.EnumTag, error) {
	switch types.EnumTag(node.Type) {
	case types.EnumTagPlain, types.EnumTagUnsigned, types.EnumTagWideUnsigned:
		return types.EnumTag(node.Type), nil
	default:
		return "", shared.MalformedRegistry(source, fmt.Sprintf("enum %s has unknown type %q", node.Name, node.Type))
	}
}

func convertClauses(nodes []clauseXML) []types.Clause {
	clauses := make([]types.Clause, 0, len(nodes))
	for _, node := range nodes {
		clause := types.Clause{
			Profile: node.Profile,
			API:     node.API,
			Comment: node.Comment,
		}
		for _, ref := range node.Types {
			clause.Types = append(clause.Types, ref.Name)
		}
		for _, ref := range node.Enums {
			clause.Enums = append(clause.Enums, ref.Name)
		}
		for _, ref := range node.Commands {
			clause.Commands = append(clause.Commands, ref.Name)
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

func splitNonEmpty(value string, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

var _ ports.RegistryPort = (*RegistryXMLAdapter)(nil)
