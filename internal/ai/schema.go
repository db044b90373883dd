package ai

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ablejobs/matchcore/internal/match"
)

// ErrSchemaMismatch is wrapped by every validation failure.
var ErrSchemaMismatch = match.ErrSchemaMismatch

// SchemaError names the field that broke validation.
type SchemaError struct {
	Field   string
	Problem string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrSchemaMismatch, e.Problem)
	}
	return fmt.Sprintf("%s: field %q %s", ErrSchemaMismatch, e.Field, e.Problem)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// Assessment is a validated model response.
type Assessment struct {
	Score          float64
	Reasons        []string
	Strengths      []string
	Weaknesses     []string
	Recommendation string
}

// ParseAssessment validates raw model output. Every field is required and strictly typed:
// a score given as a string is a mismatch, not something to coerce.
func ParseAssessment(raw string) (Assessment, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return Assessment{}, &SchemaError{Problem: "empty response"}
	}
	if !gjson.Valid(cleaned) {
		return Assessment{}, &SchemaError{Problem: "response is not valid JSON"}
	}

	doc := gjson.Parse(cleaned)
	if !doc.IsObject() {
		return Assessment{}, &SchemaError{Problem: "response is not a JSON object"}
	}

	score := doc.Get("score")
	switch {
	case !score.Exists():
		return Assessment{}, &SchemaError{Field: "score", Problem: "is missing"}
	case score.Type != gjson.Number:
		return Assessment{}, &SchemaError{Field: "score", Problem: "is not a number"}
	case score.Float() < 0 || score.Float() > 100:
		return Assessment{}, &SchemaError{Field: "score", Problem: fmt.Sprintf("is %v, outside 0..100", score.Float())}
	}

	var (
		out = Assessment{Score: score.Float()}
		err error
	)
	if out.Reasons, err = stringList(doc, "reasons"); err != nil {
		return Assessment{}, err
	}
	if out.Strengths, err = stringList(doc, "strengths"); err != nil {
		return Assessment{}, err
	}
	if out.Weaknesses, err = stringList(doc, "weaknesses"); err != nil {
		return Assessment{}, err
	}

	rec := doc.Get("recommendation")
	if !rec.Exists() {
		return Assessment{}, &SchemaError{Field: "recommendation", Problem: "is missing"}
	}
	if rec.Type != gjson.String {
		return Assessment{}, &SchemaError{Field: "recommendation", Problem: "is not a string"}
	}
	out.Recommendation = strings.TrimSpace(rec.String())

	return out, nil
}

func stringList(doc gjson.Result, field string) ([]string, error) {
	value := doc.Get(field)
	if !value.Exists() {
		return nil, &SchemaError{Field: field, Problem: "is missing"}
	}
	if !value.IsArray() {
		return nil, &SchemaError{Field: field, Problem: "is not a list"}
	}

	items := value.Array()
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, &SchemaError{Field: field, Problem: fmt.Sprintf("item %d is not a string", i)}
		}
		out = append(out, strings.TrimSpace(item.String()))
	}
	return out, nil
}

// extractJSON strips markdown code fences and any prose around the outermost object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}
