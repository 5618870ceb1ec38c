// Package policy evaluates message admission rules with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// Input is the document a chat message is judged on.
type Input struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
}

// Result is the outcome of an evaluation.
type Result struct {
	Decision string
	Reason   string
}

// Allowed reports whether the message may be appended.
func (r Result) Allowed() bool {
	return r.Decision != DecisionBlock
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.message_policy.result"),
		rego.Module("message_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks a chat message against the policy.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Result, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Result{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	// The policy defines a default; an empty result means a policy without one.
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Result{Decision: DecisionAllow, Reason: "default"}, nil
	}

	switch val := results[0].Expressions[0].Value.(type) {
	case string:
		return Result{Decision: val}, nil
	case map[string]interface{}:
		decision, _ := val["decision"].(string)
		reason, _ := val["reason"].(string)
		if decision == "" {
			decision = DecisionAllow
		}
		return Result{Decision: decision, Reason: reason}, nil
	}

	return Result{Decision: DecisionAllow, Reason: "unexpected return type"}, nil
}

// DefaultPolicy only admits known roles and bounded message length.
// A max_length of 0 disables the length check.
const DefaultPolicy = `
package message_policy

default result = {"decision": "allow", "reason": ""}

valid_roles = {"instructor", "student"}

too_long {
	input.max_length > 0
	count(input.text) > input.max_length
}

result = {"decision": "block", "reason": "invalid_role"} {
	not valid_roles[input.role]
} else = {"decision": "block", "reason": "message_too_long"} {
	too_long
}
`
