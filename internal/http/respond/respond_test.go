package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, "created", map[string]int{"id": 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"code":201,"message":"created","data":{"id":3}}`, rec.Body.String())
}

func TestErrorOmitsData(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "goal not found")
	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotContains(t, env, "data")
	require.Equal(t, "goal not found", env["message"])
}

func TestImage(t *testing.T) {
	rec := httptest.NewRecorder()
	Image(rec, "image/png", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	Image(rec, "image/png", []byte{1, 2, 3})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "3", rec.Header().Get("Content-Length"))
}
