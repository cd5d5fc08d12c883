package docstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fixbench/fixbench/internal/config"
	"go.uber.org/zap"
)

// Store persists rendered documents and returns a URL clients can fetch.
type Store interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
}

// LocalStore writes documents to a mounted directory. Branch shops run on a
// single box, so a shared volume is enough.
type LocalStore struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

func NewLocal(cfg config.Config, log *zap.Logger) Store {
	dir := cfg.DocumentDir
	if dir == "" {
		dir = "documents"
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(cfg.DocumentBaseURL, "/"),
		log:     log.Named("docstore.local"),
	}
}

func (s *LocalStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	s.log.Debug("document stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.baseURL + "/" + key, nil
}
