package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracheck/internal/blob/core"
)

func TestS3StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()
	assert.Equal(t, core.DriverS3, s.Driver())
	assert.Equal(t, "mock-bucket", s.Bucket())

	// binary payload with CRLF pairs survives chunk decoding
	payload := []byte{0x28, 0xb5, 0x2f, 0xfd, '\r', '\n', '0', '\r', '\n', 0x00, 0xff}
	info, err := s.Put(ctx, "reports/infra-3/run.json.zst", bytes.NewReader(payload), core.PutOptions{ContentType: "application/zstd"})
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), info.Size)
	assert.Equal(t, "application/zstd", info.ContentType)

	_, err = s.Put(ctx, "reports/infra-3/run.json.zst", bytes.NewReader(payload), core.PutOptions{})
	require.ErrorIs(t, err, core.ErrExists)

	_, rc, err := s.Get(ctx, "reports/infra-3/run.json.zst")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload, got)

	_, err = s.Put(ctx, "reports/infra-30/other.json.zst", strings.NewReader("x"), core.PutOptions{})
	require.NoError(t, err)
	list, err := s.List(ctx, "reports/infra-3/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "reports/infra-3/run.json.zst", list[0].Key)

	url, err := s.PresignURL(ctx, "reports/infra-3/run.json.zst", core.SignedURLOptions{})
	require.NoError(t, err)
	assert.Contains(t, url, "reports/infra-3/run.json.zst")
	assert.Contains(t, url, "X-Amz-Signature")
	_, err = s.PresignURL(ctx, "reports/infra-3/run.json.zst", core.SignedURLOptions{Method: "PUT"})
	require.ErrorIs(t, err, core.ErrUnsupported)

	ok, err := s.Delete(ctx, "reports/infra-3/run.json.zst")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Delete(ctx, "reports/infra-3/run.json.zst")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3StoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()
	_, _, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.Head(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestDecodeAWSChunked(t *testing.T) {
	body := "5;chunk-signature=abc\r\nhello\r\n3\r\n\r\n!\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n"
	got, err := decodeAWSChunked([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "hello\r\n!", string(got))

	_, err = decodeAWSChunked([]byte("zz\r\n"))
	require.Error(t, err)
	_, err = decodeAWSChunked([]byte("10\r\nshort"))
	require.Error(t, err)
}
