package cloudinary

import (
	"bytes"
	"context"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

func (u *CloudinaryUploader) UploadBytes(
	ctx context.Context,
	folder string,
	filename string,
	b []byte,
) (string, error) {
	reader := bytes.NewReader(b)

	// "raw" accepts arbitrary attachment types, not just images
	res, err := u.cld.Upload.Upload(
		ctx,
		reader,
		uploader.UploadParams{
			Folder:       folder,
			PublicID:     filename,
			ResourceType: "raw",
		},
	)
	if err != nil {
		return "", err
	}

	return res.SecureURL, nil
}
