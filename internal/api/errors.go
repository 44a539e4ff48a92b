package api

import (
	"encoding/json"
	"net/http"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, APIError{Code: code, Message: message})
}

// WriteLoginRequired answers an unauthenticated request with the login entry
// point the client should send the user to.
func WriteLoginRequired(w http.ResponseWriter, loginURL string) {
	w.Header().Set("Location", loginURL)
	writeEnvelope(w, http.StatusUnauthorized, APIError{
		Code:     "LOGIN_REQUIRED",
		Message:  "sign in to continue booking",
		Redirect: loginURL,
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeEnvelope(w http.ResponseWriter, status int, e APIError) {
	WriteJSON(w, status, ErrorEnvelope{Error: e})
}
