// Package uploads accepts shopper images and turns them into public image
// references for the design step.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/google/uuid"
)

const defaultMaxBytes = 10 * 1024 * 1024

// ServiceParams groups dependencies for the uploads service.
type ServiceParams struct {
	Store        ObjectStore
	PublicPrefix string
	MaxBytes     int64
	Logger       *logger.Logger
}

// Result describes a stored upload.
type Result struct {
	ImageURL string `json:"image_url"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size_bytes"`
}

// Service stores uploaded images.
type Service interface {
	Upload(ctx context.Context, body io.Reader) (*Result, error)
	MaxBytes() int64
}

type service struct {
	store    ObjectStore
	prefix   string
	maxBytes int64
	logg     *logger.Logger
	newName  func() string
}

// NewService constructs an uploads service backed by the provided store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if params.MaxBytes <= 0 {
		params.MaxBytes = defaultMaxBytes
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	prefix := strings.TrimRight(params.PublicPrefix, "/")
	if prefix == "" {
		prefix = "/uploads"
	}
	return &service{
		store:    params.Store,
		prefix:   prefix,
		maxBytes: params.MaxBytes,
		logg:     params.Logger,
		newName:  uuid.NewString,
	}, nil
}

func (s *service) MaxBytes() int64 { return s.maxBytes }

// Upload reads at most MaxBytes, checks the bytes are an accepted image and
// stores them as <uuid><ext>.
func (s *service) Upload(ctx context.Context, body io.Reader) (*Result, error) {
	if body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if n > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is too large").
			WithDetails(map[string]any{"max_bytes": s.maxBytes})
	}

	detected, err := sniffImage(buf.Bytes())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "only images are accepted").
			WithDetails(map[string]any{"allowed": allowedImageDescription()})
	}

	filename := s.newName() + detected.Extension()
	if err := s.store.Put(ctx, filename, buf.Bytes()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}

	result := &Result{
		ImageURL: s.prefix + "/" + filename,
		Filename: filename,
		MimeType: detected.String(),
		Size:     n,
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"filename": filename, "mime_type": result.MimeType, "size_bytes": n}), "image uploaded")
	return result, nil
}
