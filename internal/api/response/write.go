package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Live writes a JSON response for state that changes as verdicts arrive, such
// as standings or a record still being judged. Clients must not cache it.
func Live(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Cache-Control", "no-store")
	JSON(w, status, data)
}

// List writes a 200 JSON array. A nil slice is written as [] rather than null.
func List[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, items)
}

// Created writes a 201 JSON response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Submitted writes a 201 for a new record with Location set to where its
// verdict can be polled
func Submitted(w http.ResponseWriter, recordID string, data any) {
	w.Header().Set("Location", "/api/v1/records/"+recordID)
	Live(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
