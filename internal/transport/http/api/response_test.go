package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestFailShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, 404, "leave request not found")

	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "leave request not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestFailValidationShape(t *testing.T) {
	rec := httptest.NewRecorder()
	FailValidation(rec, []ValidationIssue{{Field: "startDate", Message: "invalid date"}})

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Errors []ValidationIssue `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "error" || len(body.Errors) != 1 || body.Errors[0].Field != "startDate" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
