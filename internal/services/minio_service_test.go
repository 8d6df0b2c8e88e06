package services

import (
	"context"
	"mime"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentEscapesFileName(t *testing.T) {
	names := []string{
		"inspection.pdf",
		`audit "final".pdf`,
		"a;b=c.txt",
		"Prüfbericht März.pdf",
		`back\slash\name.csv`,
	}
	for _, name := range names {
		disposition, params, err := mime.ParseMediaType(attachment(name))
		require.NoError(t, err, name)
		assert.Equal(t, "attachment", disposition, name)
		assert.Equal(t, name, params["filename"], name)
	}
}

func TestPresignedGetCarriesDisposition(t *testing.T) {
	client, err := minio.New("minio.local:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	storage := &minioStorage{client: client, bucket: "taskboard"}

	raw, err := storage.PresignedGet(context.Background(), "c1/d1/report.pdf", `report "v2".pdf`, 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	_, params, err := mime.ParseMediaType(u.Query().Get("response-content-disposition"))
	require.NoError(t, err)
	assert.Equal(t, `report "v2".pdf`, params["filename"])
}
