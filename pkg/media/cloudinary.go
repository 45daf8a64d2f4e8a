package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage uploads catalog images to Cloudinary. The host is treated
// as opaque: all callers see is the public URL and the external id needed for
// later deletion.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage creates a storage client from a cloudinary:// URL.
func NewCloudinaryStorage(url, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	return &CloudinaryStorage{
		cld:    cld,
		folder: folder,
	}, nil
}

// Upload sends one file to the media host and returns its URL and external id.
func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader) (string, string, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}
	return resp.SecureURL, resp.PublicID, nil
}

// Delete removes a previously uploaded file by its external id.
func (s *CloudinaryStorage) Delete(ctx context.Context, externalID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: externalID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", externalID, err)
	}
	return nil
}
