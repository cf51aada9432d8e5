package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error responses carry a single message; input-validation failures get the
// richer per-field shape. Both formats are part of the client contract.

type errorBody struct {
	Message string `json:"message"`
}

type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationBody struct {
	Status string            `json:"status"`
	Errors []ValidationIssue `json:"errors"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Message: message})
}

func FailValidation(w http.ResponseWriter, issues []ValidationIssue) {
	JSON(w, http.StatusBadRequest, validationBody{Status: "error", Errors: issues})
}
