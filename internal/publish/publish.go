// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads converted JPEGs to an S3-compatible bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf2jpg/pkg/types"
)

const contentType = "image/jpeg"

// objectStore is the subset of *minio.Client the publisher needs.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Object records the upload of one JPEG.
type Object struct {
	Source string `json:"source" yaml:"source"`
	Key    string `json:"key" yaml:"key"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Size   int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result summarizes a Publish call.
type Result struct {
	Uploaded int      `json:"uploaded" yaml:"uploaded"`
	Failed   int      `json:"failed" yaml:"failed"`
	Bytes    int64    `json:"bytes" yaml:"bytes"`
	Objects  []Object `json:"objects" yaml:"objects"`
}

// Publisher uploads the successful outcomes of a batch.
type Publisher struct {
	store    objectStore
	cfg      types.PublishConfig
	logger   *zap.Logger
	progress io.Writer
}

// New connects to cfg.Endpoint with static credentials.
func New(cfg types.PublishConfig, accessKey, secretKey string, logger *zap.Logger) (*Publisher, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("publish endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing S3 client: %w", err)
	}
	return newPublisher(client, cfg, logger), nil
}

func newPublisher(store objectStore, cfg types.PublishConfig, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{store: store, cfg: cfg, logger: logger, progress: io.Discard}
}

// SetProgress directs per-object lines to w.
func (p *Publisher) SetProgress(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	p.progress = w
}

// Key returns the object key for a local JPEG path.
func (p *Publisher) Key(localPath string) string {
	name := filepath.Base(localPath)
	if p.cfg.Prefix == "" {
		return name
	}
	return path.Join(p.cfg.Prefix, name)
}

// URL returns the address of key under the configured endpoint.
func (p *Publisher) URL(key string) string {
	scheme := "http"
	if p.cfg.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.cfg.Endpoint, p.cfg.Bucket, url.PathEscape(key))
}

// Publish uploads every successful outcome in s. A failed upload is recorded
// and does not stop the rest; the returned error is reserved for problems
// that prevent any upload, such as a missing bucket.
func (p *Publisher) Publish(ctx context.Context, s types.BatchSummary) (Result, error) {
	exists, err := p.store.BucketExists(ctx, p.cfg.Bucket)
	if err != nil {
		return Result{}, fmt.Errorf("checking bucket %s: %w", p.cfg.Bucket, err)
	}
	if !exists {
		return Result{}, fmt.Errorf("bucket %q does not exist", p.cfg.Bucket)
	}

	var res Result
	for _, o := range s.Results {
		if !o.Success {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		obj := Object{Source: o.OutputPath, Key: p.Key(o.OutputPath)}
		info, err := p.store.FPutObject(ctx, p.cfg.Bucket, obj.Key, o.OutputPath, minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{"uploaded-at": time.Now().UTC().Format(time.RFC3339)},
		})
		if err != nil {
			obj.Error = err.Error()
			res.Failed++
			fmt.Fprintf(p.progress, "  upload failed: %s (%v)\n", obj.Key, err)
			p.logger.Warn("upload failed", zap.String("key", obj.Key), zap.Error(err))
		} else {
			obj.URL = p.URL(obj.Key)
			obj.Size = info.Size
			res.Uploaded++
			res.Bytes += info.Size
			fmt.Fprintf(p.progress, "  uploaded: %s\n", obj.Key)
			p.logger.Debug("uploaded", zap.String("key", obj.Key), zap.Int64("size", info.Size))
		}
		res.Objects = append(res.Objects, obj)
	}
	return res, nil
}
