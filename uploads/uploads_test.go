package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vTempo/afroditis-delicacies/models"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSaveDishImage(t *testing.T) {
	dir := t.TempDir()
	im := NewImages(dir, "/uploads/")

	url, err := im.SaveDishImage("d1", fileHeader(t, "Moussaka.JPG", []byte("jpeg-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/dishes/d1_"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)

	data, err := os.ReadFile(filepath.Join(dir, "dishes", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestSaveDishImageRejectsOtherFiles(t *testing.T) {
	im := NewImages(t.TempDir(), "/uploads")
	_, err := im.SaveDishImage("d1", fileHeader(t, "menu.pdf", []byte("%PDF")))
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBackupOnceAndPrune(t *testing.T) {
	src := filepath.Join(t.TempDir(), "uploads")
	dest := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "dishes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "dishes", "a.png"), []byte("png"), 0o644))

	now := time.Date(2026, 6, 10, 2, 0, 0, 0, time.UTC)
	b := NewBackup(src, dest, 96*time.Hour, 2)
	b.now = func() time.Time { return now }

	folder, err := b.Once()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "2026-06-10_02-00-00"), folder)
	data, err := os.ReadFile(filepath.Join(folder, "dishes", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	old := filepath.Join(dest, "2026-06-01_02-00-00")
	require.NoError(t, os.MkdirAll(old, 0o755))
	require.NoError(t, os.Chtimes(old, now.Add(-10*24*time.Hour), now.Add(-10*24*time.Hour)))
	require.NoError(t, os.Chtimes(folder, now, now))

	b.Prune()
	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(folder)
	assert.NoError(t, err)
}

func TestBackupNextRun(t *testing.T) {
	b := NewBackup("", "", time.Hour, 2)

	b.now = func() time.Time { return time.Date(2026, 6, 10, 1, 30, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2026, 6, 10, 2, 0, 0, 0, time.UTC), b.nextRun())

	b.now = func() time.Time { return time.Date(2026, 6, 10, 2, 0, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2026, 6, 11, 2, 0, 0, 0, time.UTC), b.nextRun())
}

func TestBackupRunStopsOnCancel(t *testing.T) {
	b := NewBackup(t.TempDir(), t.TempDir(), time.Hour, 2)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
