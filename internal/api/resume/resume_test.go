package resume

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/job-board/internal/config"
)

func TestFSStore_SaveAndRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFSStore(fs, "/uploads/")
	ctx := context.Background()

	ref, err := store.Save(ctx, "abc-cv.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc-cv.pdf", ref)
	assert.Equal(t, BackendLocal, store.Backend())

	content, err := afero.ReadFile(fs, "/abc-cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	require.NoError(t, store.Remove(ctx, "abc-cv.pdf"))
	exists, err := afero.Exists(fs, "/abc-cv.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	// removing twice is fine
	assert.NoError(t, store.Remove(ctx, "abc-cv.pdf"))
}

func TestFSStore_BasePath(t *testing.T) {
	base := afero.NewMemMapFs()
	store := NewFSStore(afero.NewBasePathFs(base, "/srv/public/uploads"), "/uploads")

	_, err := store.Save(context.Background(), "x-cv.pdf", strings.NewReader("cv"))
	require.NoError(t, err)

	exists, err := afero.Exists(base, "/srv/public/uploads/x-cv.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFSStore_RefusesOverwrite(t *testing.T) {
	store := NewFSStore(afero.NewMemMapFs(), "/uploads")
	ctx := context.Background()

	_, err := store.Save(ctx, "same.pdf", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "same.pdf", strings.NewReader("two"))
	assert.Error(t, err)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestFSStore_ReaderErrorIsWrapped(t *testing.T) {
	sentinel := errors.New("too large")
	store := NewFSStore(afero.NewMemMapFs(), "/uploads")

	_, err := store.Save(context.Background(), "big.pdf", failingReader{err: sentinel})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain", input: "6f1c-cv.pdf"},
		{name: "empty", input: "", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "slash", input: "../etc/passwd", wantErr: true},
		{name: "backslash", input: `a\b`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

type fakeS3 struct {
	putKey    string
	putBucket string
	body      string
	deleted   string
	putErr    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putBucket = *in.Bucket
	f.putKey = *in.Key
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = *in.Key
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, config.S3Storage{
		Bucket:        "resumes",
		Prefix:        "/uploads/",
		PublicBaseURL: "https://cdn.example.com/",
	}, 0)
	ctx := context.Background()

	ref, err := store.Save(ctx, "abc-cv.pdf", strings.NewReader("cv body"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/abc-cv.pdf", ref)
	assert.Equal(t, "resumes", client.putBucket)
	assert.Equal(t, "uploads/abc-cv.pdf", client.putKey)
	assert.Equal(t, "cv body", client.body)
	assert.Equal(t, BackendS3, store.Backend())

	require.NoError(t, store.Remove(ctx, "abc-cv.pdf"))
	assert.Equal(t, "uploads/abc-cv.pdf", client.deleted)
}

func TestS3Store_PutError(t *testing.T) {
	store := NewS3Store(&fakeS3{putErr: errors.New("access denied")}, config.S3Storage{Bucket: "b"}, 0)

	_, err := store.Save(context.Background(), "cv.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewStore_UnknownDriver(t *testing.T) {
	_, err := NewStore(context.Background(), config.StorageConfig{Driver: "ftp"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
