package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  Go developer, 5 years  \n"), 0o600))

	text, err := ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Go developer, 5 years", text)
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="x"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Senior Go engineer</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	text, err := FromBytes(context.Background(), buf.Bytes(), "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Go engineer", text)
}

func TestExtractRejects(t *testing.T) {
	ctx := context.Background()

	_, err := FromBytes(ctx, []byte("x"), "cv.png")
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = FromBytes(ctx, []byte("   "), "cv.txt")
	assert.EqualError(t, err, "no text found")

	_, err = FromBytes(ctx, []byte("not a pdf"), "cv.pdf")
	assert.Error(t, err)

	_, err = ExtractText(ctx, filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = FromBytes(cancelled, []byte("text"), "cv.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
