package harness

import (
	"context"

	"github.com/roach88/e2e2d/internal/e2e"
)

// Compile turns a scenario into runner steps: one Precondition per given
// entry followed by the scenario's own steps.
func Compile(s *Scenario) []e2e.Step {
	steps := make([]e2e.Step, 0, len(s.Given)+len(s.Steps))
	for _, p := range s.Given {
		steps = append(steps, e2e.Precondition{Name: p.Name, Steps: compileSteps(p.Steps)})
	}
	return append(steps, compileSteps(s.Steps)...)
}

func compileSteps(in []Step) []e2e.Step {
	out := make([]e2e.Step, len(in))
	for i, st := range in {
		out[i] = compileStep(st)
	}
	return out
}

func compileStep(st Step) e2e.Action {
	switch st.Kind() {
	case StepNavTo:
		return e2e.NavTo(st.NavTo)
	case StepFill:
		return e2e.Fill(st.Fill.Selector, st.Fill.Value)
	case StepClick:
		return e2e.Click(st.Click)
	default:
		return compileSee(*st.See)
	}
}

func compileSee(see SeeStep) e2e.Action {
	return func(ctx context.Context, s *e2e.Session) error {
		sh := s.Should().See(ctx, see.Selector, see.Label)
		switch {
		case see.Equals != nil:
			return sh.Equals(ctx, *see.Equals, e2e.InnerText)
		case see.Text != nil:
			return sh.Is().Equal(ctx, *see.Text, e2e.InnerText, e2e.TrimSpace)
		default:
			return sh.To().Exist(ctx)
		}
	}
}

// Run executes s with r.
func Run(ctx context.Context, r *e2e.Runner, s *Scenario) (*e2e.Session, error) {
	return r.Run(ctx, s.Name, s.Description, Compile(s)...)
}
