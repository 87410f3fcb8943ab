package storage

import (
	"context"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"

	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
)

const logoPrefix = "logos"

// GCS stores uploads in a bucket and returns their public URL.
type GCS struct {
	Client *gcs.Client
	Bucket string
}

func NewGCS(client *gcs.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket}
}

func (g *GCS) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, g.Client, g.Bucket, path.Join(logoPrefix, name), contentType, r)
}
