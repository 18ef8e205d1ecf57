package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request is a helper method to simplify making a HTTP request for tests.
//
// Strings are sent as is, url.Values are form encoded, and structs, maps
// and slices are encoded as JSON.
func Request(t *testing.T, h http.Handler, method, reqURL string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	var byteBuffer *bytes.Buffer
	contentType := "application/json"

	switch b := body.(type) {
	case nil:
		byteBuffer = new(bytes.Buffer)
	case string:
		byteBuffer = bytes.NewBufferString(b)
	case url.Values:
		byteBuffer = bytes.NewBufferString(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	case *bytes.Buffer:
		byteBuffer = b
	default:
		kind := reflect.TypeOf(body).Kind()
		if kind != reflect.Struct && kind != reflect.Map && kind != reflect.Slice && kind != reflect.Pointer {
			assert.FailNow(t, "Unsupported request body type", "%T", body)
		}

		byteStr, err := json.Marshal(body)
		if err != nil {
			assert.FailNow(t, "Request body could not be marshalled from struct input", err)
		}
		byteBuffer = bytes.NewBuffer(byteStr)
	}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, reqURL, byteBuffer)
	req.Header.Set("Content-Type", contentType)

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	h.ServeHTTP(recorder, req)

	return *recorder
}

// Bearer returns the header map authenticating a request with token.
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.Unmarshal(r.Body.Bytes(), &target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

// AssertHTTPStatus verifies that the HTTP response status is correct
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}
