package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"farmer/internal/domain"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const genericErrorMessage = "bad request"

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// routeFunc is a route body. A nil result with a nil error means "no content".
type routeFunc func(r *http.Request) (any, error)

// handle runs fn and writes its result as JSON with the route's declared
// status, or 204 for a nil result. Errors use the {error, code} envelope.
func handle(log logrus.FieldLogger, code int, fn routeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fn(r)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		if data == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, code, data)
	}
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// writeError exposes domain error messages and redacts everything else.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Cause != nil {
			log.WithError(de.Cause).WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			}).Info(de.Message)
		}
		writeJSON(w, de.Code, errorBody{Error: de.Message, Code: de.Code})
		return
	}

	log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	writeJSON(w, http.StatusBadRequest, errorBody{Error: genericErrorMessage, Code: http.StatusBadRequest})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.BadInput("invalid JSON body", err)
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, domain.BadData("invalid id")
	}
	return id, nil
}
