// Package testutil carries shared helpers for exercising HTTP handlers
// through a full gin engine in tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// MakeJSONRequest drives the engine with a JSON body and returns the
// recorder plus the decoded response. An empty authToken leaves the
// Authorization header off entirely, which is how unauthenticated
// requests arrive in production.
func MakeJSONRequest(body gin.H, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	payload, _ := json.Marshal(body)

	req, _ := http.NewRequest(method, endpoint, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// StringPtr returns a pointer to s, for optional request fields.
func StringPtr(s string) *string {
	return &s
}
