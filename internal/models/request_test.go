package models

import "testing"

func expectErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %s but got nil", code)
	}
	resp, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse, got %T", err)
	}
	if resp.Code != code {
		t.Fatalf("expected error code %s, got %s", code, resp.Code)
	}
}

func TestErrorResponse_Error(t *testing.T) {
	err := &ErrorResponse{Message: "failed"}
	if err.Error() != "failed" {
		t.Fatalf("expected message to be returned, got %s", err.Error())
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]bool{
		"admin":     true,
		"candidate": true,
		"Admin":     false,
		"":          false,
		"recruiter": false,
	}
	for raw, want := range cases {
		role, ok := ParseRole(raw)
		if ok != want {
			t.Fatalf("ParseRole(%q) ok = %v, expected %v", raw, ok, want)
		}
		if string(role) != raw {
			t.Fatalf("ParseRole(%q) should carry the raw value, got %q", raw, role)
		}
	}
}

func TestSignUpRequestValidate(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		req := &SignUpRequest{}
		expectErrCode(t, req.Validate(), "invalid_sign_up")
	})

	t.Run("bad email", func(t *testing.T) {
		req := &SignUpRequest{Name: "Ann", Email: "not-an-email", Password: "longenough"}
		expectErrCode(t, req.Validate(), "invalid_sign_up")
	})

	t.Run("unknown role", func(t *testing.T) {
		req := &SignUpRequest{Name: "Ann", Email: "ann@example.com", Password: "longenough", Role: "owner"}
		err := req.Validate()
		expectErrCode(t, err, "invalid_sign_up")
		if details := err.(*ErrorResponse).Details; len(details) != 1 || details[0].Field != "role" {
			t.Fatalf("expected a single role detail, got %+v", details)
		}
	})

	t.Run("valid request normalizes", func(t *testing.T) {
		req := &SignUpRequest{Name: " Ann ", Email: " ANN@Example.com ", Password: "longenough", Role: " Candidate "}
		if err := req.Validate(); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if req.Email != "ann@example.com" || req.Name != "Ann" || req.Role != "candidate" {
			t.Fatalf("request not normalized: %+v", req)
		}
	})
}

func TestSignInRequestValidate(t *testing.T) {
	expectErrCode(t, (&SignInRequest{Email: "a@b.co"}).Validate(), "invalid_sign_in")

	req := &SignInRequest{Email: "A@B.co", Password: "x"}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if req.Email != "a@b.co" {
		t.Fatalf("email not normalized: %s", req.Email)
	}
}

func TestCreateInterviewRequestValidate(t *testing.T) {
	t.Run("invalid type", func(t *testing.T) {
		req := &CreateInterviewRequest{Role: "Frontend Developer", Level: "junior", Type: "trivia"}
		expectErrCode(t, req.Validate(), "invalid_interview")
	})

	t.Run("valid request compacts techstack", func(t *testing.T) {
		req := &CreateInterviewRequest{
			Role:      "Frontend Developer",
			Level:     "Senior",
			Type:      "Technical",
			Techstack: []string{"React", " ", " TypeScript "},
		}
		if err := req.Validate(); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(req.Techstack) != 2 || req.Techstack[1] != "TypeScript" {
			t.Fatalf("techstack not compacted: %v", req.Techstack)
		}
		if req.Level != "senior" || req.Type != "technical" {
			t.Fatalf("enums not normalized: %+v", req)
		}
	})
}

func TestGenerateFeedbackRequestValidate(t *testing.T) {
	expectErrCode(t, (&GenerateFeedbackRequest{}).Validate(), "missing_transcript")

	req := &GenerateFeedbackRequest{Transcript: []TranscriptTurn{{Role: "user", Content: ""}}}
	err := req.Validate()
	expectErrCode(t, err, "invalid_transcript")
	if details := err.(*ErrorResponse).Details; len(details) != 1 || details[0].Field != "transcript[0].content" {
		t.Fatalf("unexpected details: %+v", details)
	}

	ok := &GenerateFeedbackRequest{Transcript: []TranscriptTurn{{Role: "assistant", Content: "Hi"}}, FeedbackID: " f1 "}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if ok.FeedbackID != "f1" {
		t.Fatalf("feedback id not trimmed: %q", ok.FeedbackID)
	}
}

func TestScoreInRange(t *testing.T) {
	for _, s := range []int{0, 50, 100} {
		if !ScoreInRange(s) {
			t.Fatalf("expected %d in range", s)
		}
	}
	for _, s := range []int{-1, 101} {
		if ScoreInRange(s) {
			t.Fatalf("expected %d out of range", s)
		}
	}
}
