package cloudinary

import (
	"context"
	"io"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Client wraps the Cloudinary uploader as "upload blob, get public URL,
// delete by path" for avatar storage.
type Client interface {
	Upload(ctx context.Context, file io.Reader, publicID string) (url string, err error)
	Delete(ctx context.Context, publicID string) error
}

type clientImpl struct {
	cld    *cld.Cloudinary
	folder string
}

// NewFromURL builds a Client from a CLOUDINARY_URL-style DSN.
func NewFromURL(cloudinaryURL, folder string) (Client, error) {
	c, err := cld.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cld: c, folder: folder}, nil
}

func (c *clientImpl) Upload(ctx context.Context, file io.Reader, publicID string) (string, error) {
	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:    c.folder,
		PublicID:  publicID,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

func (c *clientImpl) Delete(ctx context.Context, publicID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
