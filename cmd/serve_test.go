package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/namecleaner/internal/pipeline"
)

func TestHandleClean_Grouped(t *testing.T) {
	setTestConfig(t)
	normalizer, err := buildNormalizer("")
	require.NoError(t, err)

	body := `{"names":["Acme Inc.","ACME CORP.","Beta Industries"],"group":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/clean", strings.NewReader(body))
	w := httptest.NewRecorder()

	handleClean(w, req, normalizer)
	require.Equal(t, http.StatusOK, w.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Rows, 3)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Acme", result.Rows[0].Cleaned)
	assert.Equal(t, "Acme", result.Rows[1].Canonical)
	assert.Equal(t, "Beta Industries", result.Rows[2].Canonical)
	assert.Equal(t, 2, result.Representatives)
}

func TestHandleClean_UngroupedUsesNoCanonical(t *testing.T) {
	setTestConfig(t)
	normalizer, err := buildNormalizer("")
	require.NoError(t, err)

	body := `{"names":["Danny's Pizza"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/clean", strings.NewReader(body))
	w := httptest.NewRecorder()

	handleClean(w, req, normalizer)
	require.Equal(t, http.StatusOK, w.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Dannys Pizza", result.Rows[0].Cleaned)
	assert.Equal(t, "", result.Rows[0].Canonical)
}

func TestHandleClean_CustomThreshold(t *testing.T) {
	setTestConfig(t)
	normalizer, err := buildNormalizer("")
	require.NoError(t, err)

	// At threshold 50 the 50-scoring pair groups together.
	body := `{"names":["Alpha Beta Gamma Delta","Alpha Beta"],"group":true,"threshold":50}`
	req := httptest.NewRequest(http.MethodPost, "/v1/clean", strings.NewReader(body))
	w := httptest.NewRecorder()

	handleClean(w, req, normalizer)
	require.Equal(t, http.StatusOK, w.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, result.Rows[0].Cleaned, result.Rows[1].Canonical)
}

func TestHandleClean_InvalidThreshold(t *testing.T) {
	setTestConfig(t)
	normalizer, err := buildNormalizer("")
	require.NoError(t, err)

	body := `{"names":["Acme"],"group":true,"threshold":150}`
	req := httptest.NewRequest(http.MethodPost, "/v1/clean", strings.NewReader(body))
	w := httptest.NewRecorder()

	handleClean(w, req, normalizer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleClean_BadBody(t *testing.T) {
	setTestConfig(t)
	normalizer, err := buildNormalizer("")
	require.NoError(t, err)

	for _, body := range []string{"{not json", `{"names":[]}`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/clean", strings.NewReader(body))
		w := httptest.NewRecorder()
		handleClean(w, req, normalizer)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}
