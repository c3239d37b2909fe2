package storage

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("acme/analyses/1.json"))
	assert.Equal(t, "text/markdown", contentType("acme/report.md"))
	assert.Equal(t, "application/octet-stream", contentType("acme/blob"))
}

func TestObjectURL(t *testing.T) {
	cli, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: false,
	})
	require.NoError(t, err)
	s := &Store{client: cli, bucketName: "forgespace"}

	assert.Equal(t, "http://localhost:9000/forgespace/acme/analyses/1.json", s.objectURL("acme/analyses/1.json"))
}
