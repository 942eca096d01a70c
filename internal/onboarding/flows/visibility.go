package flows

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"engage/internal/onboarding/models"
)

// VisibilityRule declares when a conditional sub-section of a step screen is
// shown, as a boolean expression over the accumulated form data. Rules are
// pure reads: they never touch sequencer position bookkeeping.
type VisibilityRule struct {
	Step       StepKey
	Section    string
	Expression string
}

// DefaultRules mirror the conditional sections of the account-opening flow:
// employer details only for the employed, school name only for minors.
var DefaultRules = []VisibilityRule{
	{
		Step:       StepEmployment,
		Section:    "employerDetails",
		Expression: `formData?.employment?.status in ["Employed", "Self-Employed"]`,
	},
	{
		Step:       StepEmployment,
		Section:    "schoolName",
		Expression: `age(formData?.basicInfo?.dateOfBirth) < 18`,
	},
}

// Evaluator compiles visibility rules once and evaluates them per request.
type Evaluator struct {
	logger   *slog.Logger
	rules    []VisibilityRule
	programs map[string]*exprvm.Program
	now      func() time.Time
}

// NewEvaluator compiles the given rules. A rule that fails to compile is a
// programming error and is reported immediately.
func NewEvaluator(logger *slog.Logger, rules []VisibilityRule) (*Evaluator, error) {
	e := &Evaluator{
		logger:   logger,
		rules:    rules,
		programs: make(map[string]*exprvm.Program, len(rules)),
		now:      time.Now,
	}
	for _, rule := range rules {
		program, err := exprlang.Compile(rule.Expression,
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
			exprlang.Function("age", e.ageFn),
		)
		if err != nil {
			return nil, fmt.Errorf("compile visibility rule %s/%s: %w", rule.Step, rule.Section, err)
		}
		e.programs[ruleKey(rule)] = program
	}
	return e, nil
}

// VisibleSections evaluates every rule attached to a step against the
// accumulated data. A rule that fails to evaluate hides its section; broken
// answers must not reveal conditional fields.
func (e *Evaluator) VisibleSections(step StepKey, formData models.FormData) map[string]bool {
	sections := make(map[string]bool)
	env := map[string]any{"formData": decodeFormData(formData)}
	for _, rule := range e.rules {
		if rule.Step != step {
			continue
		}
		result, err := exprlang.Run(e.programs[ruleKey(rule)], env)
		if err != nil {
			e.logger.Warn("visibility rule evaluation failed",
				"step", string(rule.Step), "section", rule.Section, "error", err)
			sections[rule.Section] = false
			continue
		}
		visible, ok := result.(bool)
		sections[rule.Section] = ok && visible
	}
	return sections
}

// ageFn computes whole years since a date answer in YYYY-MM-DD form. A
// missing or malformed date evaluates as an adult so minor-only sections stay
// hidden.
func (e *Evaluator) ageFn(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("age expects one argument")
	}
	raw, ok := params[0].(string)
	if !ok || raw == "" {
		return 999, nil
	}
	birth, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return 999, nil
	}
	now := e.now()
	years := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		years--
	}
	return years, nil
}

func ruleKey(rule VisibilityRule) string {
	return string(rule.Step) + "/" + rule.Section
}

// decodeFormData turns the opaque sub-records into plain maps so expressions
// can reach into them. Blobs that fail to decode stay absent, which reads as
// nil in the expressions.
func decodeFormData(formData models.FormData) map[string]any {
	decoded := make(map[string]any, len(formData))
	for key, raw := range formData {
		var value any
		if err := json.Unmarshal(raw, &value); err == nil {
			decoded[key] = value
		}
	}
	return decoded
}
