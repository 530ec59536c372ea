package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary implements Host on top of the Cloudinary admin and upload APIs.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary creates a Cloudinary host from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) List(ctx context.Context, prefix string, limit int) ([]Asset, error) {
	res, err := c.cld.Admin.Assets(ctx, admin.AssetsParams{
		AssetType:    api.Image,
		DeliveryType: string(api.Upload),
		Prefix:       prefix,
		MaxResults:   limit,
	})
	if err != nil {
		return nil, err
	}
	if err := apiError(res.Error); err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(res.Assets))
	for _, a := range res.Assets {
		assets = append(assets, Asset{PublicID: a.PublicID, SecureURL: a.SecureURL})
	}
	return assets, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicIDs []string) error {
	res, err := c.cld.Admin.DeleteAssets(ctx, admin.DeleteAssetsParams{
		AssetType:    api.Image,
		DeliveryType: api.Upload,
		PublicIDs:    publicIDs,
	})
	if err != nil {
		return err
	}
	return apiError(res.Error)
}

func (c *Cloudinary) DeleteFolder(ctx context.Context, folder string) error {
	res, err := c.cld.Admin.DeleteFolder(ctx, admin.DeleteFolderParams{Folder: folder})
	if err != nil {
		return err
	}
	return apiError(res.Error)
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) (string, error) {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return "", err
	}
	if err := apiError(res.Error); err != nil {
		return "", err
	}
	return res.Result, nil
}

func (c *Cloudinary) CopyFromURL(ctx context.Context, url, publicID string) error {
	res, err := c.cld.Upload.Upload(ctx, url, uploader.UploadParams{PublicID: publicID})
	if err != nil {
		return err
	}
	return apiError(res.Error)
}

func apiError(e api.ErrorResp) error {
	if e.Message == "" {
		return nil
	}
	if strings.HasPrefix(e.Message, "Can't find folder with path") {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, e.Message)
	}
	return fmt.Errorf("cloudinary: %s", e.Message)
}
