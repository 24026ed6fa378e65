package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postChat(t *testing.T, handler http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(body)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func postUpload(t *testing.T, handler http.Handler, fileName string, content []byte, accountID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if accountID != "" {
		require.NoError(t, writer.WriteField("account_id", accountID))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-file/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestChatEchoesMessage(t *testing.T) {
	t.Parallel()

	rec, body := postChat(t, New(t.TempDir()).Handler(), `{"message":"Hello","account_id":"account_id_2"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You said: **Hello**", body["response"])
	assert.Equal(t, false, body["is_interrupted"])
}

func TestChatTracksInterruptedStatePerAccount(t *testing.T) {
	t.Parallel()

	var seen []bool
	responder := func(_ context.Context, message, _ string, interrupted bool) (string, bool, error) {
		seen = append(seen, interrupted)
		return "ok", message == "ask", nil
	}
	handler := New(t.TempDir(), WithResponder(responder)).Handler()

	postChat(t, handler, `{"message":"ask","account_id":"a"}`)
	postChat(t, handler, `{"message":"hello","account_id":"b"}`)
	_, body := postChat(t, handler, `{"message":"answer","account_id":"a"}`)

	assert.Equal(t, []bool{false, false, true}, seen)
	assert.Equal(t, false, body["is_interrupted"])
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	rec, body := postChat(t, New(t.TempDir()).Handler(), `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestChatRejectsOtherMethods(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New(t.TempDir()).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request method"}`, rec.Body.String())
}

func TestChatResponderFailure(t *testing.T) {
	t.Parallel()

	responder := func(context.Context, string, string, bool) (string, bool, error) {
		return "", false, errors.New("agent offline")
	}

	rec, body := postChat(t, New(t.TempDir(), WithResponder(responder)).Handler(), `{"message":"x","account_id":"a"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "agent offline", body["error"])
}

func TestEchoResponderQuestionFlow(t *testing.T) {
	t.Parallel()

	reply, interrupted, err := EchoResponder(context.Background(), "Book a room?", "a", false)
	require.NoError(t, err)
	assert.True(t, interrupted)
	assert.Contains(t, reply, "Book a room")

	reply, interrupted, err = EchoResponder(context.Background(), "tomorrow", "a", true)
	require.NoError(t, err)
	assert.False(t, interrupted)
	assert.Contains(t, reply, "tomorrow")
}

func TestUploadStoresFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec, body := postUpload(t, New(dir).Handler(), "notes.txt", []byte("hello"), "account_id_2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "File uploaded successfully", body["message"])
	assert.Equal(t, "notes.txt", body["file_name"])

	content, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestUploadReplacesOnlyChangedContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	server := New(dir)
	handler := server.Handler()

	postUpload(t, handler, "data.csv", []byte("a,b"), "acc")
	path := filepath.Join(dir, "data.csv")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	postUpload(t, handler, "data.csv", []byte("a,b"), "acc")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.WithinDuration(t, old, info.ModTime(), time.Second)

	postUpload(t, handler, "data.csv", []byte("c,d"), "acc")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c,d", string(content))
}

func TestUploadValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fileName  string
		accountID string
		want      string
	}{
		{name: "missing file", accountID: "acc", want: "No file uploaded"},
		{name: "missing account", fileName: "a.png", want: "No account_id provided"},
		{name: "bad extension", fileName: "tool.exe", accountID: "acc", want: "Invalid file type. Allowed types: .jpeg, .jpg, .png, .pdf, .txt, .csv"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, body := postUpload(t, New(t.TempDir()).Handler(), tt.fileName, []byte("x"), tt.accountID)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestUploadRejectsGet(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New(t.TempDir()).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload-file/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, rec.Body.String())
}
