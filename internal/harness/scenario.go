package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/nodeweave/internal/editor"
)

// Scenario is a conformance test: a list of intents and the assertions
// the final state must satisfy.
type Scenario struct {
	Name        string      `yaml:"name" validate:"required"`
	Description string      `yaml:"description" validate:"required"`
	Steps       []Step      `yaml:"steps" validate:"required,min=1,dive"`
	Assertions  []Assertion `yaml:"assertions" validate:"required,min=1,dive"`
}

// Step is one intent plus optional expectations about its outcome.
type Step struct {
	editor.Intent `yaml:",inline"`

	// ExpectError is the code the step must fail with: an editor intent
	// error code, or PARSE_ERROR for an undecodable load.
	ExpectError string `yaml:"expect_error,omitempty"`

	// ExpectNoop requires the step to leave state unchanged.
	ExpectNoop bool `yaml:"expect_noop,omitempty"`
}

// Assertion checks the final state of a run.
type Assertion struct {
	Type string `yaml:"type" validate:"required"`

	Count    *int     `yaml:"count,omitempty" validate:"omitempty,gte=0"`
	Value    *bool    `yaml:"value,omitempty"`
	NodeID   string   `yaml:"node_id,omitempty"`
	EdgeID   string   `yaml:"edge_id,omitempty"`
	Field    string   `yaml:"field,omitempty" validate:"omitempty,oneof=label description color"`
	Equals   string   `yaml:"equals,omitempty"`
	PortKind string   `yaml:"port_kind,omitempty" validate:"omitempty,oneof=input output"`
	Names    []string `yaml:"names,omitempty"`
	Style    string   `yaml:"style,omitempty" validate:"omitempty,oneof=step bezier smoothstep straight"`
	Kinds    []string `yaml:"kinds,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeCount       = "node_count"
	AssertEdgeCount       = "edge_count"
	AssertCanUndo         = "can_undo"
	AssertCanRedo         = "can_redo"
	AssertSnapToGrid      = "snap_to_grid"
	AssertLineStyle       = "line_style"
	AssertNoDanglingEdges = "no_dangling_edges"
	AssertNodeField       = "node_field"
	AssertPortNames       = "port_names"
	AssertEdgeStyle       = "edge_style"
	AssertJournalKinds    = "journal_kinds"
	AssertReplayMatches   = "replay_matches"
	AssertNotice          = "notice"
)

// ExpectParseError is the expect_error code for an undecodable load.
const ExpectParseError = "PARSE_ERROR"

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the scenario files under path, sorted.
// A file path is returned as is.
func FindScenarios(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(p))
		if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario runs struct validation, then the per-type checks the
// tags cannot express.
func validateScenario(s *Scenario) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q check", fe.Namespace(), fe.Tag())
		}
		return err
	}

	for i, step := range s.Steps {
		if !step.Kind.Known() {
			return fmt.Errorf("steps[%d]: unknown intent kind %q", i, step.Kind)
		}
		if step.ExpectError != "" && step.ExpectNoop {
			return fmt.Errorf("steps[%d]: expect_error and expect_noop are exclusive", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertNodeCount, AssertEdgeCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertCanUndo, AssertCanRedo, AssertSnapToGrid:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertLineStyle:
		if a.Style == "" {
			return fmt.Errorf("assertions[%d]: style is required for line_style", index)
		}
	case AssertNodeField:
		if a.NodeID == "" || a.Field == "" {
			return fmt.Errorf("assertions[%d]: node_id and field are required for node_field", index)
		}
	case AssertPortNames:
		if a.NodeID == "" || a.PortKind == "" {
			return fmt.Errorf("assertions[%d]: node_id and port_kind are required for port_names", index)
		}
	case AssertEdgeStyle:
		if a.EdgeID == "" || a.Style == "" {
			return fmt.Errorf("assertions[%d]: edge_id and style are required for edge_style", index)
		}
	case AssertJournalKinds:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for journal_kinds", index)
		}
	case AssertNotice:
		if a.Equals == "" {
			return fmt.Errorf("assertions[%d]: equals is required for notice", index)
		}
	case AssertNoDanglingEdges, AssertReplayMatches:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
