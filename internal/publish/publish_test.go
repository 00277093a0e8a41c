// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2jpg/pkg/types"
)

type putCall struct {
	bucket, object, file, contentType string
}

type fakeStore struct {
	exists    bool
	existsErr error
	failKeys  map[string]bool
	puts      []putCall
}

func (f *fakeStore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) FPutObject(_ context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.puts = append(f.puts, putCall{bucket, object, filePath, opts.ContentType})
	if f.failKeys[object] {
		return minio.UploadInfo{}, errors.New("access denied")
	}
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: 1024}, nil
}

func summary(outcomes ...types.ConversionOutcome) types.BatchSummary {
	var s types.BatchSummary
	s.Total = len(outcomes)
	for _, o := range outcomes {
		s.Record(o)
	}
	return s
}

func TestPublish(t *testing.T) {
	store := &fakeStore{exists: true, failKeys: map[string]bool{"scans/b.jpg": true}}
	p := newPublisher(store, types.PublishConfig{Endpoint: "s3.local:9000", Bucket: "pages", Prefix: "scans", Secure: true}, nil)
	var out bytes.Buffer
	p.SetProgress(&out)

	s := summary(
		types.Succeeded("in/a.pdf", "out/a.jpg"),
		types.Failed("in/x.pdf", "No pages found in PDF"),
		types.Succeeded("in/b.pdf", "out/b.jpg"),
	)

	res, err := p.Publish(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Uploaded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, int64(1024), res.Bytes)
	require.Len(t, res.Objects, 2)
	assert.Equal(t, "https://s3.local:9000/pages/scans%2Fa.jpg", res.Objects[0].URL)
	assert.Equal(t, "access denied", res.Objects[1].Error)

	require.Len(t, store.puts, 2, "failed outcomes are not uploaded")
	assert.Equal(t, putCall{"pages", "scans/a.jpg", "out/a.jpg", "image/jpeg"}, store.puts[0])
	assert.Contains(t, out.String(), "uploaded: scans/a.jpg")
	assert.Contains(t, out.String(), "upload failed: scans/b.jpg")
}

func TestPublish_Bucket(t *testing.T) {
	tests := []struct {
		name   string
		store  *fakeStore
		errMsg string
	}{
		{name: "missing bucket", store: &fakeStore{exists: false}, errMsg: `bucket "pages" does not exist`},
		{name: "check fails", store: &fakeStore{existsErr: errors.New("dial tcp")}, errMsg: "checking bucket pages: dial tcp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPublisher(tt.store, types.PublishConfig{Endpoint: "s3.local", Bucket: "pages"}, nil)
			_, err := p.Publish(context.Background(), summary(types.Succeeded("a.pdf", "a.jpg")))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Empty(t, tt.store.puts)
		})
	}
}

func TestKeyAndURL(t *testing.T) {
	p := newPublisher(&fakeStore{}, types.PublishConfig{Endpoint: "minio:9000", Bucket: "b"}, nil)
	assert.Equal(t, "a.jpg", p.Key("/tmp/out/a.jpg"))
	assert.Equal(t, "http://minio:9000/b/a.jpg", p.URL("a.jpg"))
}

func TestNew_RequiresEndpointAndBucket(t *testing.T) {
	_, err := New(types.PublishConfig{Bucket: "b"}, "a", "s", nil)
	require.Error(t, err)
	_, err = New(types.PublishConfig{Endpoint: "localhost:9000"}, "a", "s", nil)
	require.Error(t, err)
}

func TestNew_BuildsClient(t *testing.T) {
	p, err := New(types.PublishConfig{Endpoint: "localhost:9000", Bucket: "b"}, "a", "s", nil)
	require.NoError(t, err)
	assert.NotNil(t, p.store)
}
