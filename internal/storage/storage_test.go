package storage_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/config"
	"github.com/comprasys/cotacao-api/internal/storage"
)

func TestNewStorage_Local(t *testing.T) {
	cfg := &config.StorageConfig{
		Mode:          "local",
		LocalBasePath: t.TempDir(),
	}

	s, err := storage.NewStorage(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, s)
}

func TestNewStorage_CloudWithoutConnectionString(t *testing.T) {
	cfg := &config.StorageConfig{Mode: "cloud"}

	_, err := storage.NewStorage(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string")
}

func TestNewStorage_UnsupportedMode(t *testing.T) {
	cfg := &config.StorageConfig{Mode: "ftp"}

	_, err := storage.NewStorage(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage mode")
}

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	content := "proposta comercial em anexo"

	path, size, err := s.Upload(ctx, "proposta.pdf", "application/pdf", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.Equal(t, ".pdf", filepath.Ext(path))

	reader, err := s.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	require.NoError(t, s.Delete(ctx, path))

	_, err = s.Download(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestLocalStorage_UploadGeneratesUniquePaths(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	first, _, err := s.Upload(ctx, "mapa.xlsx", "application/vnd.ms-excel", strings.NewReader("v1"))
	require.NoError(t, err)
	second, _, err := s.Upload(ctx, "mapa.xlsx", "application/vnd.ms-excel", strings.NewReader("v2"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStorage_DeleteMissingFileIsNoop(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.Delete(context.Background(), "aa/bb/missing.pdf"))
}

func TestLocalStorage_EmptyUpload(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	path, size, err := s.Upload(ctx, "vazio.txt", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, size)

	reader, err := s.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Empty(t, data)
}
