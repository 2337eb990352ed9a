package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func newTestStorage(t *testing.T, maxSize int64, mimes []string) *Storage {
	t.Helper()
	s, err := NewStorage(Config{
		BaseDir:      t.TempDir(),
		MaxSizeBytes: maxSize,
		AllowedMIMEs: mimes,
	})
	require.NoError(t, err)
	return s
}

func TestSaveWritesFileUnderKindFolder(t *testing.T) {
	s := newTestStorage(t, 1<<20, []string{"image/png"})

	fh := multipartFile(t, "scan.png", "image/png", "png-bytes")
	url, err := s.Save(KindDocument, fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/documents/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	onDisk := filepath.Join(s.BaseDir(), KindDocument, filepath.Base(url))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveRejectsOversizeFile(t *testing.T) {
	s := newTestStorage(t, 4, nil)

	fh := multipartFile(t, "big.txt", "text/plain", "more than four bytes")
	_, err := s.Save(KindDocument, fh)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveRejectsDisallowedMIME(t *testing.T) {
	s := newTestStorage(t, 1<<20, []string{"image/png", "application/pdf"})

	fh := multipartFile(t, "run.exe", "application/octet-stream", "MZ")
	_, err := s.Save(KindDocument, fh)
	assert.ErrorIs(t, err, ErrTypeNotAllowed)
}

func TestSaveRejectsUnknownKind(t *testing.T) {
	s := newTestStorage(t, 1<<20, nil)

	fh := multipartFile(t, "a.txt", "text/plain", "a")
	_, err := s.Save("secrets", fh)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
