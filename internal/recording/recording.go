// Package recording holds the ordered log of narrated steps produced by a
// scenario run and its on-disk representation.
package recording

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FileName is the name of the serialized recording inside a scenario folder.
const FileName = "e2e2d.json"

// Kind names the action a step documents.
type Kind string

const (
	KindNavTo        Kind = "navTo"
	KindFill         Kind = "fill"
	KindClick        Kind = "click"
	KindEquals       Kind = "equals"
	KindEqual        Kind = "equal"
	KindExist        Kind = "exist"
	KindPrecondition Kind = "precondition"
)

// Phase is the moment of a step a screenshot was taken at.
type Phase string

const (
	PhaseBefore    Phase = "before"
	PhaseHighlight Phase = "highlight"
	PhaseAfter     Phase = "after"
)

// Outcome summarizes how a run ended.
type Outcome string

const (
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed" // an assertion failed
	OutcomeError  Outcome = "error"  // anything else went wrong
)

// Step is one narrated action or assertion. Screenshot fields hold paths
// relative to the scenario folder.
type Step struct {
	Action              Kind   `json:"action"`
	Selector            string `json:"selector"`
	Doc                 string `json:"doc"`
	Value               string `json:"value,omitempty"`
	BeforeScreenshot    string `json:"beforeScreenshot,omitempty"`
	HighlightScreenshot string `json:"highlightScreenshot,omitempty"`
	AfterScreenshot     string `json:"afterScreenshot,omitempty"`
	Failed              bool   `json:"failed,omitempty"`
}

// Recording is the ordered list of steps of one scenario run.
// AddStep is ignored while the recording is stopped.
type Recording struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RunID       string  `json:"runId,omitempty"`
	Outcome     Outcome `json:"outcome,omitempty"`
	Digest      string  `json:"digest,omitempty"`
	Steps       []Step  `json:"steps"`

	stopped bool
}

// New creates an enabled, empty recording.
func New(name, description string) *Recording {
	return &Recording{
		Name:        name,
		Description: description,
		Steps:       []Step{},
	}
}

// AddStep appends s unless the recording is stopped. It reports whether the
// step was kept.
func (r *Recording) AddStep(s Step) bool {
	if r.stopped {
		return false
	}
	r.Steps = append(r.Steps, s)
	return true
}

// Stop mutes the recording.
func (r *Recording) Stop() { r.stopped = true }

// Start resumes the recording.
func (r *Recording) Start() { r.stopped = false }

// Enabled reports whether AddStep currently records.
func (r *Recording) Enabled() bool { return !r.stopped }

// Len returns the number of recorded steps.
func (r *Recording) Len() int { return len(r.Steps) }

// Marshal renders the recording as indented JSON with a trailing newline.
func (r *Recording) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("marshal recording: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the recording to dir/e2e2d.json and returns the file path.
func (r *Recording) Save(dir string) (string, error) {
	data, err := r.Marshal()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write recording: %w", err)
	}
	return path, nil
}

// Load reads a recording written by Save. path may name the file or the
// folder containing it.
func Load(path string) (*Recording, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	var r Recording
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse recording %s: %w", path, err)
	}
	if r.Steps == nil {
		r.Steps = []Step{}
	}
	return &r, nil
}

// FolderName turns a scenario display name into its folder name: NFC
// normalized, spaces replaced by underscores.
func FolderName(display string) string {
	return strings.ReplaceAll(norm.NFC.String(display), " ", "_")
}

// ScenarioDir returns the folder a scenario writes its artifacts to.
func ScenarioDir(outputFolder, display string) string {
	return filepath.Join(outputFolder, FolderName(display))
}

// ScreenshotName returns the artifact name for a step phase, e.g.
// "3_click_before.png".
func ScreenshotName(counter int, action Kind, phase Phase) string {
	return fmt.Sprintf("%d_%s_%s.png", counter, action, phase)
}
