package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/service"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object from the request body. It writes the
// 400 response itself and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON payload"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		respond.Error(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// respondError maps service error kinds to status codes. Anything unexpected
// is logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch {
		case errors.Is(err, service.ErrInvalid):
			respond.Error(w, http.StatusBadRequest, svcErr.Message)
			return
		case errors.Is(err, service.ErrNotFound):
			respond.Error(w, http.StatusNotFound, svcErr.Message)
			return
		case errors.Is(err, service.ErrConflict):
			respond.Error(w, http.StatusConflict, svcErr.Message)
			return
		case errors.Is(err, service.ErrUnauthorized):
			respond.Error(w, http.StatusUnauthorized, svcErr.Message)
			return
		}
	}
	logrus.WithError(err).WithField("request_id", middleware.RequestID(r.Context())).Error(action)
	respond.Error(w, http.StatusInternalServerError, "failed to "+action)
}

// callerID returns the authenticated user. The auth middleware guarantees it,
// so a miss is answered with 401.
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
	}
	return id, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, fmt.Sprintf("%s must be a number", name))
		return 0, false
	}
	return v, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(w http.ResponseWriter, r *http.Request, key string) (*models.Date, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, fmt.Sprintf("%s: %v", key, err))
		return nil, false
	}
	return &d, true
}

// queryRange parses the required startDate and endDate parameters.
func queryRange(w http.ResponseWriter, r *http.Request) (models.Date, models.Date, bool) {
	start, ok := queryDate(w, r, "startDate")
	if !ok {
		return models.Date{}, models.Date{}, false
	}
	end, ok := queryDate(w, r, "endDate")
	if !ok {
		return models.Date{}, models.Date{}, false
	}
	if start == nil || end == nil {
		respond.Error(w, http.StatusBadRequest, "startDate and endDate are required")
		return models.Date{}, models.Date{}, false
	}
	return *start, *end, true
}
