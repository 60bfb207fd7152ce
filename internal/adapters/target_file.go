package adapters

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"glbindgen/internal/ports"
	"glbindgen/internal/shared"
	"glbindgen/internal/types"
)

//go:embed schema/targets.schema.json
var targetsSchemaBytes []byte

var (
	targetsSchema      *jsonschema.Schema
	targetsSchemaOnce  sync.Once
	targetsSchemaErr   error
	schemaIssuePrinter = message.NewPrinter(language.English)
)

const defaultInitFunction = "init"

type TargetFileAdapter struct{}

func NewTargetFileAdapter() TargetFileAdapter {
	return TargetFileAdapter{}
}

// SchemaIssue is one schema violation of a targets file.
type SchemaIssue struct {
	Path    string
	Keyword string
	Message string
}

// LoadTargets reads, schema-checks and defaults a targets file. Relative
// registry paths and output directories are resolved against the file's
// directory.
func (a TargetFileAdapter) LoadTargets(path string) (types.TargetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TargetFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("targets file not found").
			WithCause(err)
	}
	issues, err := ValidateTargetsDocument(data)
	if err != nil {
		return types.TargetFile{}, err
	}
	if len(issues) > 0 {
		parts := make([]string, 0, len(issues))
		for _, issue := range issues {
			parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
		}
		return types.TargetFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("targets file %s is invalid: %s", path, strings.Join(parts, "; ")))
	}

	var file types.TargetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.TargetFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse targets yaml").
			WithCause(err)
	}
	base := filepath.Dir(path)
	for i := range file.Targets {
		file.Targets[i] = ApplyTargetDefaults(file.Targets[i], base)
	}
	return file, nil
}

// ApplyTargetDefaults fills the optional fields of target. base is the
// directory relative paths are resolved against; empty leaves them as is.
func ApplyTargetDefaults(target types.Target, base string) types.Target {
	if target.Registry.Format == "" {
		target.Registry.Format = types.RegistryFormatXML
	}
	if target.Selection.RemovalScope == "" {
		target.Selection.RemovalScope = types.RemovalScopeGroup
	}
	if target.Output.Header == "" {
		target.Output.Header = target.Name + ".hpp"
	}
	if target.Output.Source == "" {
		target.Output.Source = target.Name + ".cpp"
	}
	if target.Output.HeaderInclude == "" {
		target.Output.HeaderInclude = target.Output.Header
	}
	if target.Output.IncludeGuard == "" {
		target.Output.IncludeGuard = shared.MacroName(strings.ReplaceAll(target.Output.Namespace, "::", "_") + "_" + target.Output.Header)
	}
	if target.Output.InitFunction == "" {
		target.Output.InitFunction = defaultInitFunction
	}
	if base != "" {
		if target.Registry.Path != "" && !filepath.IsAbs(target.Registry.Path) {
			target.Registry.Path = filepath.Join(base, target.Registry.Path)
		}
		if target.Output.Dir != "" && !filepath.IsAbs(target.Output.Dir) {
			target.Output.Dir = filepath.Join(base, target.Output.Dir)
		}
	}
	return target
}

func getTargetsSchema() (*jsonschema.Schema, error) {
	targetsSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(targetsSchemaBytes))
		if err != nil {
			targetsSchemaErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("targets.schema.json", doc); err != nil {
			targetsSchemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		targetsSchema, targetsSchemaErr = c.Compile("targets.schema.json")
	})
	return targetsSchema, targetsSchemaErr
}

// ValidateTargetsDocument checks raw YAML against the embedded targets
// schema. The error return is for unreadable documents only.
func ValidateTargetsDocument(data []byte) ([]SchemaIssue, error) {
	schema, err := getTargetsSchema()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to compile targets schema").
			WithCause(err)
	}
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse targets yaml").
			WithCause(err)
	}
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("targets yaml cannot be represented as json").
			WithCause(err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to prepare targets for validation").
			WithCause(err)
	}
	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("unexpected schema validation error").
			WithCause(err)
	}
	var issues []SchemaIssue
	collectSchemaIssues(validationErr, &issues)
	if len(issues) == 0 {
		issues = append(issues, SchemaIssue{Path: "/" + strings.Join(validationErr.InstanceLocation, "/"), Message: validationErr.Error()})
	}
	return dedupeSchemaIssues(issues), nil
}

func collectSchemaIssues(ve *jsonschema.ValidationError, issues *[]SchemaIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectSchemaIssues(cause, issues)
		}
		return
	}
	path := "/" + strings.Join(ve.InstanceLocation, "/")
	keyword := ""
	message := ""
	if ve.ErrorKind != nil {
		if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
			keyword = kwPath[len(kwPath)-1]
		}
		message = ve.ErrorKind.LocalizedString(schemaIssuePrinter)
	}
	switch keyword {
	case "", "oneOf", "allOf", "$ref":
		return
	}
	*issues = append(*issues, SchemaIssue{Path: path, Keyword: keyword, Message: message})
}

func dedupeSchemaIssues(issues []SchemaIssue) []SchemaIssue {
	seen := map[SchemaIssue]struct{}{}
	var result []SchemaIssue
	for _, issue := range issues {
		if _, ok := seen[issue]; ok {
			continue
		}
		seen[issue] = struct{}{}
		result = append(result, issue)
	}
	return result
}

// normalizeYAML converts yaml.v3 values into types encoding/json accepts.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = normalizeYAML(item)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, item := range val {
			a[i] = normalizeYAML(item)
		}
		return a
	default:
		return val
	}
}

var _ ports.TargetFilePort = TargetFileAdapter{}
