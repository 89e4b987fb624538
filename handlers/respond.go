package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"education-backend/models"
	"education-backend/repository"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const deletedMessage = "Deleted successfully"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, models.ErrorResponse{Description: description})
}

// pathID reads the {id} route variable. Routes restrict it to digits, so a
// parse failure only happens on overflow.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// decodeBody decodes and validates a JSON request body, writing a 400 on
// failure. It reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logrus.WithError(err).WithField("path", r.URL.Path).Warn("Error decoding JSON")
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return false
	}

	if err := validateRequest(dst); err != nil {
		logrus.WithError(err).WithField("path", r.URL.Path).Warn("Validation failed")
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// writeRepositoryError maps repository error kinds onto HTTP statuses.
// conflictStatus lets group deletion keep answering 400 for its guard.
func writeRepositoryError(w http.ResponseWriter, log *logrus.Entry, err error, conflictStatus int) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrConflict):
		status = conflictStatus
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Database error")
		writeError(w, status, "Internal server error")
		return
	}

	log.WithError(err).Warn("Request rejected")
	writeError(w, status, repository.Message(err))
}
