package explain

import (
	"context"
	"fmt"
	"strings"

	"TrendCast/internal/domain/models"
	domrepo "TrendCast/internal/domain/repository"
)

// StaticExplainer renders a deterministic plain-text explanation from
// prediction facts. It is the offline stand-in for an LLM-backed generator
// and is what tests exercise.
type StaticExplainer struct{}

func NewStaticExplainer() *StaticExplainer { return &StaticExplainer{} }

func (e *StaticExplainer) GenerateExplanation(_ context.Context, facts models.ExplanationFacts) (string, error) {
	direction := "not up"
	if facts.Predicted == 1 {
		direction = "up"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s as of %s: model %s estimates a %.1f%% chance the next close is higher, so the call is %q.",
		facts.Symbol, facts.AsOf, facts.Version, facts.ProbUp*100, direction)
	fmt.Fprintf(&b, " During training the model was right on %.1f%% of held-out days (+/- %.1f%% across time slices).",
		facts.AccuracyMean*100, facts.AccuracyStd*100)
	b.WriteString(" Past accuracy does not guarantee future results; this is not financial advice.")
	return b.String(), nil
}

var _ domrepo.Explainer = (*StaticExplainer)(nil)
