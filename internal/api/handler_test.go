package api

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp() *fiber.App {
	app := fiber.New()
	h := &Handler{Log: zerolog.Nop()}
	h.Register(app)
	return app
}

func multipartBody(t *testing.T, fields map[string]string, filename string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleHealth(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleConvertMissingFile(t *testing.T) {
	app := setupTestApp()

	buf, contentType := multipartBody(t, map[string]string{"bank": "axis"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleConvertUnsupportedBank(t *testing.T) {
	app := setupTestApp()

	buf, contentType := multipartBody(t, map[string]string{"bank": "chase"}, "chase-pw-jul.pdf", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/convert", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "bank")
}

// Document-level failures come back as JSON with an error, not a 5xx.
func TestHandleConvertCorruptDocument(t *testing.T) {
	app := setupTestApp()

	buf, contentType := multipartBody(t, map[string]string{"bank": "axis"}, "axis-pw-jul.pdf", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/convert", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body ConvertResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
	assert.Empty(t, body.Transactions)
}
