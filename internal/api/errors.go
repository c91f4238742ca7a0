package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const msgInternal = "Something went wrong on our end."

// ErrorBody is the error member of the response envelope.
type ErrorBody struct {
	Message string `json:"message"`
}

// Response is the {success, data?, error?} envelope every /api response uses.
// List responses also carry page and totalPages; bulk delete carries count.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Page       *int        `json:"page,omitempty"`
	TotalPages *int        `json:"totalPages,omitempty"`
	Count      *int64      `json:"count,omitempty"`
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData writes a successful envelope around data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

// writeList writes a successful list envelope with pagination fields.
func writeList(w http.ResponseWriter, data any, page, totalPages int) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data, Page: &page, TotalPages: &totalPages})
}

// writeError writes a failed envelope with message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: &ErrorBody{Message: message}})
}

// writeInternal logs err with request fields and answers 500 without leaking it.
func writeInternal(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	log.WithFields(logrus.Fields{
		"method": r.Method,
		"url":    r.URL.RequestURI(),
	}).WithError(err).Error("request failed")
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// emptyObject renders as {} in the data member.
var emptyObject = struct{}{}
