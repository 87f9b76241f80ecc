package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"mockprep/platform/internal/llm"
	"mockprep/platform/internal/models"
)

var ErrInvalidAssessment = errors.New("invalid assessment")

// categoryKeys maps the model's output keys to the stored category names, in
// storage order.
var categoryKeys = []struct {
	key  string
	name string
}{
	{"communication", models.CategoryCommunication},
	{"technicalKnowledge", models.CategoryTechnicalKnowledge},
	{"problemSolving", models.CategoryProblemSolving},
	{"culturalFit", models.CategoryCulturalFit},
	{"confidence", models.CategoryConfidence},
}

// Assessment is a validated model assessment.
type Assessment struct {
	TotalScore          int
	Categories          []models.CategoryScore
	Strengths           []string
	AreasForImprovement []string
	FinalAssessment     string
}

type rawCategory struct {
	Score    *float64 `json:"score"`
	Feedback *string  `json:"feedback"`
}

type rawAssessment struct {
	TotalScore          *float64                `json:"totalScore"`
	CategoryScores      map[string]*rawCategory `json:"categoryScores"`
	Strengths           *[]string               `json:"strengths"`
	AreasForImprovement *[]string               `json:"areasForImprovement"`
	FinalAssessment     *string                 `json:"finalAssessment"`
}

// AssessmentSchema describes the structured output requested from the model.
func AssessmentSchema() *llm.Schema {
	category := func(desc string) *llm.Schema {
		return &llm.Schema{
			Type:        llm.TypeObject,
			Description: desc,
			Properties: map[string]*llm.Schema{
				"score":    scoreSchema(),
				"feedback": {Type: llm.TypeString},
			},
			Required: []string{"score", "feedback"},
		}
	}
	stringList := &llm.Schema{Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}}

	props := make(map[string]*llm.Schema, len(categoryKeys))
	required := make([]string, 0, len(categoryKeys))
	for _, c := range categoryKeys {
		props[c.key] = category(c.name)
		required = append(required, c.key)
	}

	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"totalScore": scoreSchema(),
			"categoryScores": {
				Type:       llm.TypeObject,
				Properties: props,
				Required:   required,
			},
			"strengths":           stringList,
			"areasForImprovement": stringList,
			"finalAssessment":     {Type: llm.TypeString},
		},
		Required: []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
	}
}

func scoreSchema() *llm.Schema {
	return &llm.Schema{
		Type:    llm.TypeInteger,
		Minimum: llm.Float(models.MinScore),
		Maximum: llm.Float(models.MaxScore),
	}
}

// ParseAssessment decodes and validates the model output. Extra fields,
// missing fields, unknown or missing categories and out of range or
// fractional scores are rejected, never coerced.
func ParseAssessment(content string) (*Assessment, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()

	var raw rawAssessment
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssessment, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidAssessment)
	}

	switch {
	case raw.TotalScore == nil:
		return nil, missing("totalScore")
	case raw.CategoryScores == nil:
		return nil, missing("categoryScores")
	case raw.Strengths == nil:
		return nil, missing("strengths")
	case raw.AreasForImprovement == nil:
		return nil, missing("areasForImprovement")
	case raw.FinalAssessment == nil:
		return nil, missing("finalAssessment")
	}

	total, err := score("totalScore", *raw.TotalScore)
	if err != nil {
		return nil, err
	}

	for key := range raw.CategoryScores {
		if !knownCategory(key) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidAssessment, key)
		}
	}

	categories := make([]models.CategoryScore, 0, len(categoryKeys))
	for _, c := range categoryKeys {
		rc, ok := raw.CategoryScores[c.key]
		if !ok || rc == nil {
			return nil, fmt.Errorf("%w: missing category %q", ErrInvalidAssessment, c.name)
		}
		if rc.Score == nil {
			return nil, missing("categoryScores." + c.key + ".score")
		}
		if rc.Feedback == nil {
			return nil, missing("categoryScores." + c.key + ".feedback")
		}
		s, err := score("categoryScores."+c.key+".score", *rc.Score)
		if err != nil {
			return nil, err
		}
		categories = append(categories, models.CategoryScore{Name: c.name, Score: s, Comment: *rc.Feedback})
	}

	return &Assessment{
		TotalScore:          total,
		Categories:          categories,
		Strengths:           *raw.Strengths,
		AreasForImprovement: *raw.AreasForImprovement,
		FinalAssessment:     *raw.FinalAssessment,
	}, nil
}

func knownCategory(key string) bool {
	for _, c := range categoryKeys {
		if c.key == key {
			return true
		}
	}
	return false
}

func score(field string, v float64) (int, error) {
	if v < models.MinScore || v > models.MaxScore || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s=%v is not an integer in [%d,%d]", ErrInvalidAssessment, field, v, models.MinScore, models.MaxScore)
	}
	return int(v), nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing field %q", ErrInvalidAssessment, field)
}

// formatTranscript renders turns as "- role: content" lines in order.
func formatTranscript(turns []models.TranscriptTurn) string {
	var buf bytes.Buffer
	for _, t := range turns {
		fmt.Fprintf(&buf, "- %s: %s\n", t.Role, t.Content)
	}
	return buf.String()
}
