package project

import (
	"bytes"
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/project.schema.json
var schemaBytes []byte

const schemaURL = "project.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	// Path is the JSON pointer of the offending value, e.g.
	// "/rules/require-path-import-extension/extension".
	Path    string
	Message string
	// Keyword is the schema keyword that failed, e.g. "pattern".
	Keyword string
	// Line is the 1-based YAML line of the offending value, 0 if unknown.
	Line int
}

func (i ValidationIssue) String() string {
	var b strings.Builder
	if i.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", i.Line)
	}
	if i.Path != "" {
		b.WriteString(i.Path + ": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// InvalidError reports a project file that does not match the schema.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is invalid:", e.Path)
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %s", issue)
	}
	return b.String()
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		if compiledSchema, err = c.Compile(schemaURL); err != nil {
			compileErr = fmt.Errorf("compiling schema: %w", err)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw YAML against the project schema. The error return is
// for unparseable YAML or a broken schema; violations are in the result.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	var root *yaml.Node
	var raw interface{}
	if len(doc.Content) > 0 {
		root = doc.Content[0]
		if err := root.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}
	// Empty or comment-only files are an empty config.
	if raw == nil {
		raw = map[string]interface{}{}
	}

	// The validator wants json.Number rather than YAML's int and float types.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &ValidationResult{Issues: collectIssues(ve, root)}, nil
}

// ValidateFile reads a file and validates it against the project schema.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// collectIssues flattens the error tree to its leaves, drops duplicates and
// orders the rest by position. Container keywords like oneOf only say that a
// branch failed, so their causes are reported instead.
func collectIssues(ve *jsonschema.ValidationError, root *yaml.Node) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[ValidationIssue]bool)

	stack := []*jsonschema.ValidationError{ve}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(e.Causes) > 0 {
			stack = append(stack, e.Causes...)
			continue
		}
		if e.ErrorKind == nil {
			continue
		}
		kw := e.ErrorKind.KeywordPath()
		if len(kw) == 0 {
			continue
		}
		switch keyword := kw[len(kw)-1]; keyword {
		case "oneOf", "allOf", "$ref":
		default:
			issue := ValidationIssue{
				Message: e.ErrorKind.LocalizedString(printer),
				Keyword: keyword,
				Line:    lineOf(root, e.InstanceLocation),
			}
			if len(e.InstanceLocation) > 0 {
				issue.Path = "/" + strings.Join(e.InstanceLocation, "/")
			}
			if !seen[issue] {
				seen[issue] = true
				issues = append(issues, issue)
			}
		}
	}

	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	slices.SortStableFunc(issues, func(a, b ValidationIssue) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Path, b.Path), cmp.Compare(a.Keyword, b.Keyword))
	})
	return issues
}

// lineOf follows a JSON pointer through the YAML tree and returns the line
// of the deepest node it reaches.
func lineOf(root *yaml.Node, location []string) int {
	if root == nil {
		return 0
	}
	n := root
	for _, tok := range location {
		next := childNode(n, tok)
		if next == nil {
			break
		}
		n = next
	}
	return n.Line
}

func childNode(n *yaml.Node, tok string) *yaml.Node {
	switch n.Kind {
	case yaml.AliasNode:
		return childNode(n.Alias, tok)
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == tok {
				return n.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(n.Content) {
			return n.Content[i]
		}
	}
	return nil
}

// normalizeYAML converts YAML-decoded values to JSON-compatible types.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
