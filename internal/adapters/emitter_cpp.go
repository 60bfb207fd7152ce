package adapters

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"glbindgen/internal/types"
)

//go:embed templates/*.tmpl
var cppTemplateFS embed.FS

var cppTemplates = template.Must(template.ParseFS(cppTemplateFS, "templates/*.tmpl"))

// Includes every generated header and source needs regardless of the target.
var (
	requiredHeaderIncludes = []string{"functional"}
	requiredSourceIncludes = []string{"mutex", "type_traits"}
)

type CPPEmitterAdapter struct{}

func NewCPPEmitterAdapter() CPPEmitterAdapter {
	return CPPEmitterAdapter{}
}

type cppCommand struct {
	Name        string
	SlotName    string
	PointerType string
	Declaration string
	Alias       string
	Slot        string
}

type cppGroup struct {
	Name     string
	Ident    string
	Types    []string
	Enums    []string
	Commands []cppCommand
	Pointers []cppCommand
	Externs  []cppCommand
	Wrappers []string
}

type cppView struct {
	Brief          string
	License        string
	IncludeGuard   string
	HeaderIncludes []string
	SourceIncludes []string
	Typedefs       string
	Namespace      string
	InitFunction   string
	Setup          string
	Teardown       string
	Groups         []cppGroup
	Slotted        []cppGroup
	Features       []cppGroup
	Extensions     []cppGroup
}

// Render produces the header and source for a plan, keyed by file name.
func (a CPPEmitterAdapter) Render(plan types.BindingPlan, output types.OutputConfig) (map[string][]byte, error) {
	if output.Header == "" || output.Source == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("output file names are required for target %s", plan.Target))
	}
	view := newCPPView(plan, output)

	header := &bytes.Buffer{}
	if err := cppTemplates.ExecuteTemplate(header, "header", view); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render header").
			WithCause(err)
	}
	source := &bytes.Buffer{}
	if err := cppTemplates.ExecuteTemplate(source, "source", view); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render source").
			WithCause(err)
	}
	return map[string][]byte{
		output.Header: header.Bytes(),
		output.Source: source.Bytes(),
	}, nil
}

func newCPPView(plan types.BindingPlan, output types.OutputConfig) cppView {
	headerInclude := output.HeaderInclude
	if headerInclude == "" {
		headerInclude = output.Header
	}
	view := cppView{
		Brief:          output.Brief,
		License:        strings.TrimRight(output.License, "\n"),
		IncludeGuard:   output.IncludeGuard,
		HeaderIncludes: mergeIncludes(output.HeaderIncludes, requiredHeaderIncludes),
		SourceIncludes: mergeIncludes(append([]string{headerInclude}, output.SourceIncludes...), requiredSourceIncludes),
		Typedefs:       strings.TrimRight(output.Typedefs, "\n"),
		Namespace:      output.Namespace,
		InitFunction:   output.InitFunction,
		Setup:          indentSnippet(output.Setup),
		Teardown:       indentSnippet(output.Teardown),
	}
	if view.Brief == "" {
		view.Brief = fmt.Sprintf("Bindings for %s", plan.Target)
	}

	add := func(group types.ResolvedGroup) (cppGroup, bool) {
		emitted := newCPPGroup(group)
		view.Groups = append(view.Groups, emitted)
		if len(group.Commands) == 0 && output.SkipsEmptyGroups() {
			return emitted, false
		}
		view.Slotted = append(view.Slotted, emitted)
		return emitted, true
	}
	for _, group := range plan.Features {
		if emitted, ok := add(group); ok {
			view.Features = append(view.Features, emitted)
		}
	}
	for _, group := range plan.Extensions {
		if emitted, ok := add(group); ok {
			view.Extensions = append(view.Extensions, emitted)
		}
	}
	return view
}

func newCPPGroup(group types.ResolvedGroup) cppGroup {
	emitted := cppGroup{
		Name:  group.Name,
		Ident: strings.ToLower(group.Name),
	}
	for _, typ := range group.Types {
		emitted.Types = append(emitted.Types, strings.TrimSpace(typ.Declaration))
	}
	for _, enum := range group.Enums {
		emitted.Enums = append(emitted.Enums, enumDeclaration(*enum))
	}
	for _, command := range group.Commands {
		emitted.Commands = append(emitted.Commands, newCPPCommand(*command))
	}
	for _, command := range emitted.Commands {
		if command.Alias == "" {
			emitted.Externs = append(emitted.Externs, command)
			continue
		}
		emitted.Pointers = append(emitted.Pointers, command)
	}
	for _, command := range group.Commands {
		if command.PointerType == "" {
			emitted.Wrappers = append(emitted.Wrappers, commandDefinition(*command))
		}
	}
	return emitted
}

func newCPPCommand(command types.Command) cppCommand {
	if command.PointerType != "" {
		return cppCommand{
			Name:        command.Name,
			SlotName:    command.Name,
			PointerType: command.PointerType,
			Declaration: fmt.Sprintf("extern %s %s;", command.PointerType, command.Name),
			Slot:        fmt.Sprintf("%s %s = nullptr;", command.PointerType, command.Name),
		}
	}
	pointerType := command.Name + "Ptr"
	slotName := command.Name + "_ptr"
	return cppCommand{
		Name:        command.Name,
		SlotName:    slotName,
		PointerType: pointerType,
		Declaration: commandSignature(command) + ";",
		Alias:       fmt.Sprintf("using %s = std::add_pointer_t<decltype(%s)>;", pointerType, command.Name),
		Slot:        fmt.Sprintf("%s %s = nullptr;", pointerType, slotName),
	}
}

func enumDeclaration(enum types.Enum) string {
	storage := "int"
	switch enum.Tag {
	case types.EnumTagUnsigned:
		storage = "unsigned int"
	case types.EnumTagWideUnsigned:
		storage = "unsigned long long"
	}
	value := strings.TrimSpace(enum.Value)
	if enum.Tag == types.EnumTagPlain && strings.EqualFold(value, "0xFFFFFFFF") {
		value = fmt.Sprintf("int(%s)", value)
	}
	return fmt.Sprintf("constexpr %s %s = %s;", storage, enum.Name, value)
}

func commandSignature(command types.Command) string {
	params := make([]string, 0, len(command.Params))
	for _, param := range command.Params {
		params = append(params, strings.TrimSpace(param.Declaration))
	}
	return fmt.Sprintf("%s %s(%s)", strings.TrimSpace(command.ReturnType), command.Name, strings.Join(params, ", "))
}

func commandDefinition(command types.Command) string {
	args := make([]string, 0, len(command.Params))
	for _, param := range command.Params {
		args = append(args, param.Name)
	}
	call := fmt.Sprintf("%s_ptr(%s);", command.Name, strings.Join(args, ", "))
	if !returnsVoid(command.ReturnType) {
		call = "return " + call
	}
	return fmt.Sprintf("%s\n{\n    %s\n}", commandSignature(command), call)
}

func returnsVoid(returnType string) bool {
	switch strings.TrimSpace(returnType) {
	case "void", "GLvoid", "VOID":
		return true
	}
	return false
}

// mergeIncludes appends the required includes the configured list lacks.
func mergeIncludes(configured, required []string) []string {
	merged := make([]string, 0, len(configured)+len(required))
	seen := map[string]struct{}{}
	for _, include := range append(append([]string{}, configured...), required...) {
		include = strings.TrimSpace(include)
		if include == "" {
			continue
		}
		if _, ok := seen[include]; ok {
			continue
		}
		seen[include] = struct{}{}
		merged = append(merged, include)
	}
	return merged
}

func indentSnippet(snippet string) string {
	snippet = strings.Trim(snippet, "\n")
	if snippet == "" {
		return ""
	}
	lines := strings.Split(snippet, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}
