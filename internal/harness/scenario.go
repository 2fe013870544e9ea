package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a narrated browser scenario loaded from YAML.
type Scenario struct {
	// Name identifies the scenario and names its output folder.
	Name string `yaml:"name"`

	// Description is printed as the header of the run.
	Description string `yaml:"description,omitempty"`

	// Given lists preconditions run before Steps. Only their names are
	// recorded.
	Given []Precondition `yaml:"given,omitempty"`

	// Steps are the narrated actions and checks.
	Steps []Step `yaml:"steps"`
}

// Precondition is a named group of steps.
type Precondition struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	NavTo string    `yaml:"navTo,omitempty"`
	Fill  *FillStep `yaml:"fill,omitempty"`
	Click string    `yaml:"click,omitempty"`
	See   *SeeStep  `yaml:"see,omitempty"`
}

// FillStep types Value into the input matching Selector.
type FillStep struct {
	Selector string `yaml:"selector"`
	Value    string `yaml:"value"`
}

// SeeStep checks the element matching Selector. Exactly one of Exist,
// Equals and Text is set.
type SeeStep struct {
	Selector string  `yaml:"selector"`
	Label    string  `yaml:"label,omitempty"`
	Exist    bool    `yaml:"exist,omitempty"`
	Equals   *string `yaml:"equals,omitempty"`
	Text     *string `yaml:"text,omitempty"`
}

// Step kinds, as returned by Step.Kind.
const (
	StepNavTo = "navTo"
	StepFill  = "fill"
	StepClick = "click"
	StepSee   = "see"
)

// Kind returns which action the step holds, or "" if it holds none.
func (s Step) Kind() string {
	switch {
	case s.NavTo != "":
		return StepNavTo
	case s.Fill != nil:
		return StepFill
	case s.Click != "":
		return StepClick
	case s.See != nil:
		return StepSee
	}
	return ""
}

func (s Step) actionCount() int {
	n := 0
	for _, set := range []bool{s.NavTo != "", s.Fill != nil, s.Click != "", s.See != nil} {
		if set {
			n++
		}
	}
	return n
}

// LoadScenario reads a scenario file, checks it against the schema and
// decodes it, rejecting unknown fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario is LoadScenario for data already in memory. path is used in
// error messages.
func ParseScenario(path string, data []byte) (*Scenario, error) {
	if err := CheckShape(path, data); err != nil {
		return nil, err
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks the rules the decoder cannot.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	seen := map[string]bool{}
	for i, p := range s.Given {
		if p.Name == "" {
			return fmt.Errorf("given[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("given[%d]: duplicate precondition %q", i, p.Name)
		}
		seen[p.Name] = true
		if err := validateSteps(fmt.Sprintf("given[%d].steps", i), p.Steps); err != nil {
			return err
		}
	}
	return validateSteps("steps", s.Steps)
}

func validateSteps(field string, steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("%s: must be non-empty", field)
	}
	for i, st := range steps {
		if n := st.actionCount(); n != 1 {
			return fmt.Errorf("%s[%d]: exactly one of navTo, fill, click, see is required, got %d", field, i, n)
		}
		if err := validateStep(st); err != nil {
			return fmt.Errorf("%s[%d]: %w", field, i, err)
		}
	}
	return nil
}

func validateStep(st Step) error {
	switch st.Kind() {
	case StepFill:
		if st.Fill.Selector == "" {
			return fmt.Errorf("fill: selector is required")
		}
	case StepSee:
		if st.See.Selector == "" {
			return fmt.Errorf("see: selector is required")
		}
		checks := 0
		if st.See.Exist {
			checks++
		}
		if st.See.Equals != nil {
			checks++
		}
		if st.See.Text != nil {
			checks++
		}
		if checks != 1 {
			return fmt.Errorf("see: exactly one of exist, equals, text is required")
		}
	}
	return nil
}
