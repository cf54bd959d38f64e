package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeResponse(t *testing.T, res *http.Response) apiResponse {
	t.Helper()

	defer res.Body.Close()
	var payload apiResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return payload
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a form upload with file parts and plain fields.
func multipartRequest(t *testing.T, target string, files map[string][]byte, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for field, value := range fields {
		require.NoError(t, writer.WriteField(field, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
