// Package api holds the JSON response envelope shared by every HTTP handler.
//
// All routes answer {"success": true, "data": …} on the happy path and
// {"success": false, "error": "…"} otherwise.
package api

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a 200 success envelope around data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope around data.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// Error writes an error envelope with the given HTTP status code.
func Error(w http.ResponseWriter, msg string, code int) {
	write(w, code, envelope{Success: false, Error: msg})
}

func write(w http.ResponseWriter, code int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
