// Package xapi models the slice of an xAPI statement batch this service
// consumes: enough structure to validate the payload and pull the activity
// reference out of each statement's object.
package xapi

import (
	"encoding/json"
	"fmt"
)

type Agent struct {
	Name    string `json:"name,omitempty"`
	Account *struct {
		HomePage string `json:"homePage,omitempty"`
		Name     string `json:"name,omitempty"`
	} `json:"account,omitempty"`
}

type Verb struct {
	ID string `json:"id"`
}

type Object struct {
	ID         string `json:"id"`
	ObjectType string `json:"objectType,omitempty"`
}

type Result struct {
	Score *struct {
		Raw    *float64 `json:"raw,omitempty"`
		Min    *float64 `json:"min,omitempty"`
		Max    *float64 `json:"max,omitempty"`
		Scaled *float64 `json:"scaled,omitempty"`
	} `json:"score,omitempty"`
	Completion *bool `json:"completion,omitempty"`
}

// Statement is one learner-interaction record. Only the object IRI matters to
// this service; the rest of the payload is retained verbatim in the event log.
type Statement struct {
	ID     string  `json:"id,omitempty"`
	Actor  Agent   `json:"actor"`
	Verb   Verb    `json:"verb"`
	Object Object  `json:"object"`
	Result *Result `json:"result,omitempty"`
}

// ParseBatch decodes a raw statement batch. A batch is a JSON array; anything
// else is a malformed payload.
func ParseBatch(raw []byte) ([]Statement, error) {
	var stmts []Statement
	if err := json.Unmarshal(raw, &stmts); err != nil {
		return nil, fmt.Errorf("malformed statement batch: %w", err)
	}
	return stmts, nil
}
