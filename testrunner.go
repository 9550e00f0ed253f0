package backdrop

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Offset float64 `json:"offset,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// inputScript is the top-level JSON structure for an input script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

var knownActions = map[string]bool{
	"pointer":    true,
	"sweep":      true,
	"scroll":     true,
	"scrollTo":   true,
	"wait":       true,
	"screenshot": true,
}

// TestRunner sequences injected input events and screenshots across frames
// for automated visual checks. Attach to a Host via SetTestRunner.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON input script and returns a TestRunner ready
// to be attached to a Host.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Host.Update before the
// input poll.
func (r *TestRunner) step(in *EbitenInput, shots *ScreenshotQueue) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if in.Injected() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if shots != nil {
			shots.Screenshot(st.Label)
		}
	case "pointer":
		in.InjectPointer(st.X, st.Y)
	case "sweep":
		in.InjectPointerPath(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "scroll":
		in.InjectScroll(st.Delta)
	case "scrollTo":
		in.InjectScrollTo(st.Offset)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Injected() == 0 {
		r.done = true
	}
}
