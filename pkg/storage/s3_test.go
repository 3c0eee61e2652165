package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	objects map[string][]byte
	putErr  error
}

func newMockS3Client() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStorage(t *testing.T, client S3Client, baseURL string) *S3Storage {
	t.Helper()
	st, err := NewS3Storage(context.Background(), S3Config{
		Bucket:  "portal-docs",
		Region:  "ap-southeast-1",
		BaseURL: baseURL,
	}, client)
	require.NoError(t, err)
	return st
}

func TestS3Storage_PutGetDelete(t *testing.T) {
	t.Parallel()

	client := newMockS3Client()
	st := newTestStorage(t, client, "")
	ctx := context.Background()

	err := st.Put(ctx, "tenants/1/docs/abc.pdf", strings.NewReader("file body"), "application/pdf")
	require.NoError(t, err)

	rc, err := st.Get(ctx, "tenants/1/docs/abc.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "file body", string(data))

	require.NoError(t, st.Delete(ctx, "tenants/1/docs/abc.pdf"))

	_, err = st.Get(ctx, "tenants/1/docs/abc.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Storage_EmptyKey(t *testing.T) {
	t.Parallel()

	st := newTestStorage(t, newMockS3Client(), "")
	ctx := context.Background()

	assert.ErrorIs(t, st.Put(ctx, "", strings.NewReader("x"), "text/plain"), ErrEmptyKey)
	_, err := st.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, st.Delete(ctx, ""), ErrEmptyKey)
}

func TestS3Storage_URL(t *testing.T) {
	t.Parallel()

	withBase := newTestStorage(t, newMockS3Client(), "https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/tenants/1/x", withBase.URL("tenants/1/x"))

	withoutBase := newTestStorage(t, newMockS3Client(), "")
	assert.Equal(t, "https://portal-docs.s3.amazonaws.com/tenants/1/x", withoutBase.URL("tenants/1/x"))
}

func TestNewS3Storage_RequiresBucketAndRegion(t *testing.T) {
	t.Parallel()

	_, err := NewS3Storage(context.Background(), S3Config{Region: "us-east-1"}, newMockS3Client())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewS3Storage(context.Background(), S3Config{Bucket: "b"}, newMockS3Client())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", strings.NewReader("v"), "text/plain"))
	assert.Equal(t, 1, m.Len())

	rc, err := m.Get(ctx, "k")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "v", string(data))

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
