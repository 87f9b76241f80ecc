package feedback

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockprep/platform/internal/llm"
	"mockprep/platform/internal/models"
)

const validAssessment = `{
  "totalScore": 81,
  "categoryScores": {
    "communication": {"score": 80, "feedback": "clear"},
    "technicalKnowledge": {"score": 85, "feedback": "deep"},
    "problemSolving": {"score": 78, "feedback": "methodical"},
    "culturalFit": {"score": 90, "feedback": "aligned"},
    "confidence": {"score": 70, "feedback": "hesitant at times"}
  },
  "strengths": ["depth"],
  "areasForImprovement": [],
  "finalAssessment": "Strong hire."
}`

func TestParseAssessment(t *testing.T) {
	a, err := ParseAssessment(validAssessment)
	require.NoError(t, err)

	assert.Equal(t, 81, a.TotalScore)
	require.Len(t, a.Categories, 5)
	for i, c := range a.Categories {
		assert.Equal(t, models.FeedbackCategories[i], c.Name)
	}
	assert.Equal(t, 70, a.Categories[4].Score)
	assert.Equal(t, "hesitant at times", a.Categories[4].Comment)
	assert.Equal(t, []string{"depth"}, a.Strengths)
	assert.Empty(t, a.AreasForImprovement)
	assert.Equal(t, "Strong hire.", a.FinalAssessment)
}

func TestParseAssessment_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "Sure! Here is the feedback."},
		{"empty", ""},
		{"array", `[]`},
		{"missing total", `{"categoryScores":{},"strengths":[],"areasForImprovement":[],"finalAssessment":""}`},
		{"missing category", `{"totalScore":50,"categoryScores":{"communication":{"score":1,"feedback":""}},"strengths":[],"areasForImprovement":[],"finalAssessment":""}`},
		{"unknown field", `{"totalScore":50,"extra":true}`},
		{"trailing document", validAssessment + `{}`},
		{"total above range", strings.Replace(validAssessment, `"totalScore": 81`, `"totalScore": 101`, 1)},
		{"negative category", strings.Replace(validAssessment, `"score": 70`, `"score": -1`, 1)},
		{"fractional score", strings.Replace(validAssessment, `"score": 70`, `"score": 70.5`, 1)},
		{"string score", strings.Replace(validAssessment, `"score": 70`, `"score": "70"`, 1)},
		{"unknown category", strings.Replace(validAssessment, `"confidence"`, `"charisma"`, 1)},
		{"missing feedback", strings.Replace(validAssessment, `"score": 70, "feedback": "hesitant at times"`, `"score": 70`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssessment(tt.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAssessment), "got %v", err)
		})
	}
}

func TestAssessmentSchema(t *testing.T) {
	s := AssessmentSchema()
	assert.Equal(t, llm.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"}, s.Required)

	cats := s.Properties["categoryScores"]
	require.NotNil(t, cats)
	assert.Len(t, cats.Required, 5)
	score := cats.Properties["confidence"].Properties["score"]
	require.NotNil(t, score.Minimum)
	require.NotNil(t, score.Maximum)
	assert.Equal(t, 0.0, *score.Minimum)
	assert.Equal(t, 100.0, *score.Maximum)
}

func TestFormatTranscript(t *testing.T) {
	got := formatTranscript([]models.TranscriptTurn{
		{Role: "interviewer", Content: "Hi"},
		{Role: "candidate", Content: "Hello"},
	})
	assert.Equal(t, "- interviewer: Hi\n- candidate: Hello\n", got)
}
