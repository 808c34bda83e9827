// Package advisor turns a free-text question and the applicant's profile
// into a loan-advice answer. Answers are deterministic: the same question
// and profile always produce the same text.
package advisor

import (
	"strings"

	"github.com/Veraticus/loan-advisor/internal/model"
)

// Intent names the kind of question a rule answers.
type Intent string

// Built-in intents, in evaluation order.
const (
	IntentEligibility Intent = "eligibility"
	IntentCreditScore Intent = "credit_score"
	IntentEMI         Intent = "emi"
	IntentDocuments   Intent = "documents"
	IntentGeneral     Intent = "general"
)

// Rule pairs a predicate over the lower-cased question with the answer it
// produces. Respond must tolerate a nil profile.
type Rule struct {
	Match   func(query string) bool
	Respond func(profile *model.UserProfile) string
	Intent  Intent
}

// Response is an answer together with the rule that produced it.
type Response struct {
	Intent Intent
	Text   string
}

// Engine evaluates rules in order; the first matching rule answers.
type Engine struct {
	fallback Rule
	rules    []Rule
}

// NewEngine creates an engine with the given rules. Questions no rule
// matches get the general capability summary.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{
		rules:    rules,
		fallback: generalRule(),
	}
}

// NewDefaultEngine creates an engine with the built-in rules.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultRules()...)
}

// DefaultRules returns the built-in rules in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Intent:  IntentEligibility,
			Match:   containsAll("loan", "eligible"),
			Respond: eligibilityResponse,
		},
		{
			Intent:  IntentCreditScore,
			Match:   containsAny("credit score"),
			Respond: func(*model.UserProfile) string { return creditScoreGuide },
		},
		{
			Intent:  IntentEMI,
			Match:   containsAny("emi"),
			Respond: emiResponse,
		},
		{
			Intent:  IntentDocuments,
			Match:   containsAny("document", "requirement"),
			Respond: func(*model.UserProfile) string { return documentChecklist },
		},
	}
}

// Rules returns a copy of the engine's rules in evaluation order.
func (e *Engine) Rules() []Rule {
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	return rules
}

// Classify returns the intent of the rule that would answer query.
func (e *Engine) Classify(query string) Intent {
	return e.match(query).Intent
}

// Respond answers query for profile. A nil profile is treated as an empty
// one.
func (e *Engine) Respond(query string, profile *model.UserProfile) string {
	return e.Answer(query, profile).Text
}

// Answer is Respond with the matched intent attached.
func (e *Engine) Answer(query string, profile *model.UserProfile) Response {
	rule := e.match(query)
	return Response{
		Intent: rule.Intent,
		Text:   rule.Respond(profile),
	}
}

func (e *Engine) match(query string) Rule {
	lower := strings.ToLower(query)
	for _, rule := range e.rules {
		if rule.Match != nil && rule.Respond != nil && rule.Match(lower) {
			return rule
		}
	}
	return e.fallback
}

func generalRule() Rule {
	return Rule{
		Intent:  IntentGeneral,
		Match:   func(string) bool { return true },
		Respond: generalResponse,
	}
}

// containsAll matches queries that contain every keyword.
func containsAll(keywords ...string) func(string) bool {
	return func(query string) bool {
		for _, k := range keywords {
			if !strings.Contains(query, k) {
				return false
			}
		}
		return true
	}
}

// containsAny matches queries that contain at least one keyword.
func containsAny(keywords ...string) func(string) bool {
	return func(query string) bool {
		for _, k := range keywords {
			if strings.Contains(query, k) {
				return true
			}
		}
		return false
	}
}
