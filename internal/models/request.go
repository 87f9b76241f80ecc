package models

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (r *SignUpRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))

	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Role, validation.In(string(RoleAdmin), string(RoleCandidate))),
	)
	return toErrorResponse("invalid_sign_up", err)
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)

	err := validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
	return toErrorResponse("invalid_sign_in", err)
}

type CreateInterviewRequest struct {
	Role       string   `json:"role"`
	Level      string   `json:"level"`
	Type       string   `json:"type"`
	Techstack  []string `json:"techstack"`
	Questions  []string `json:"questions,omitempty"`
	AssignedTo string   `json:"assignedTo,omitempty"`
}

func (r *CreateInterviewRequest) Validate() error {
	r.Role = strings.TrimSpace(r.Role)
	r.Level = strings.ToLower(strings.TrimSpace(r.Level))
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.AssignedTo = strings.TrimSpace(r.AssignedTo)
	r.Techstack = compactStrings(r.Techstack)
	r.Questions = compactStrings(r.Questions)

	err := validation.ValidateStruct(r,
		validation.Field(&r.Role, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Level, validation.Required, validation.In(toAny(InterviewLevelsList())...)),
		validation.Field(&r.Type, validation.Required, validation.In(toAny(InterviewTypesList())...)),
		validation.Field(&r.Techstack, validation.Length(0, 20)),
		validation.Field(&r.Questions, validation.Length(0, 50)),
	)
	return toErrorResponse("invalid_interview", err)
}

type GenerateFeedbackRequest struct {
	UserID     string           `json:"userId,omitempty"`
	Transcript []TranscriptTurn `json:"transcript"`
	FeedbackID string           `json:"feedbackId,omitempty"`
}

func (r *GenerateFeedbackRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.FeedbackID = strings.TrimSpace(r.FeedbackID)

	if len(r.Transcript) == 0 {
		return &ErrorResponse{Code: "missing_transcript", Message: "transcript must contain at least one turn"}
	}
	var details []ValidationErrorDetail
	for i, turn := range r.Transcript {
		if strings.TrimSpace(turn.Role) == "" {
			details = append(details, ValidationErrorDetail{Field: fieldIndex("transcript", i, "role"), Reason: "cannot be blank"})
		}
		if strings.TrimSpace(turn.Content) == "" {
			details = append(details, ValidationErrorDetail{Field: fieldIndex("transcript", i, "content"), Reason: "cannot be blank"})
		}
	}
	if len(details) > 0 {
		return &ErrorResponse{Code: "invalid_transcript", Message: "transcript turns need a role and content", Details: details}
	}
	return nil
}

// toErrorResponse flattens ozzo validation errors into the uniform response
func toErrorResponse(code string, err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return &ErrorResponse{Code: code, Message: err.Error()}
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]ValidationErrorDetail, 0, len(fields))
	for _, field := range fields {
		details = append(details, ValidationErrorDetail{Field: field, Reason: errs[field].Error()})
	}
	return &ErrorResponse{Code: code, Message: "request validation failed", Details: details}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func fieldIndex(field string, i int, sub string) string {
	return fmt.Sprintf("%s[%d].%s", field, i, sub)
}
