package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/yanqian/samutthan/pkg/util"
)

// Renderer turns a document into a file.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

// ObjectStorage persists rendered reports.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// Service renders and stores patient reports.
type Service interface {
	Export(ctx context.Context, sessionID string, src Source) (Artifact, error)
	Open(ctx context.Context, key string) (Artifact, error)
	Discard(ctx context.Context, key string) error
}

type service struct {
	renderer Renderer
	storage  ObjectStorage
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the report domain. Report times are shown in loc.
func NewService(renderer Renderer, storage ObjectStorage, loc *time.Location, logger *slog.Logger) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		renderer: renderer,
		storage:  storage,
		logger:   logger.With("component", "report.service"),
		now:      util.Clock(loc),
	}
}

func (s *service) Export(ctx context.Context, sessionID string, src Source) (Artifact, error) {
	doc := Build(src, s.now())
	data, err := s.renderer.Render(doc)
	if err != nil {
		return Artifact{}, fmt.Errorf("render report: %w", err)
	}

	fileName := FileName(src.Profile.Name)
	key := ObjectKey(sessionID, fileName)
	stored, err := s.storage.Put(ctx, key, data, ContentType)
	if err != nil {
		return Artifact{}, fmt.Errorf("store report: %w", err)
	}
	s.logger.Info("report exported", "session_id", sessionID, "key", stored.Key, "bytes", len(data))

	return Artifact{
		Key:         key,
		FileName:    fileName,
		ContentType: ContentType,
		Data:        data,
	}, nil
}

// Open loads a previously exported report.
func (s *service) Open(ctx context.Context, key string) (Artifact, error) {
	body, err := s.storage.Get(ctx, key)
	if err != nil {
		return Artifact{}, fmt.Errorf("open report: %w", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return Artifact{}, fmt.Errorf("read report: %w", err)
	}
	return Artifact{
		Key:         key,
		FileName:    path.Base(key),
		ContentType: ContentType,
		Data:        data,
	}, nil
}

func (s *service) Discard(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}
