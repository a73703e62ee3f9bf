package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldcfg "github.com/cloudinary/cloudinary-go/v2/config"

	"chartitze/internal/config"
)

// Uploader stores gallery media and returns delivery URLs.
type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
	UploadVideo(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
}

// Eager transformations applied at upload time so the frontend gets
// pre-optimized assets.
const (
	imageEager = "q_auto,f_auto,w_800,c_fill"
	videoEager = "q_auto:low,f_auto,w_1280"
	thumbWidth = 200
)

var eagerAsyncFalse = false

type Client struct {
	cloudName string
	uploader  *uploader.API
}

func New(cfg config.CloudinaryCfg) (*Client, error) {
	c, err := cldcfg.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(c)
	if err != nil {
		return nil, err
	}
	return &Client{cloudName: cfg.CloudName, uploader: up}, nil
}

func (c *Client) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	res, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	thumb := ""
	if len(res.Eager) > 0 {
		thumb = res.Eager[0].SecureURL
	}
	if thumb == "" {
		thumb = fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
			c.cloudName, thumbWidth, res.PublicID)
	}
	return res.SecureURL, thumb, nil
}

// Disabled is an Uploader that rejects uploads, for deployments without
// Cloudinary configured.
type Disabled struct{}

func (Disabled) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	return "", "", errors.New("media uploads are not configured")
}

func (Disabled) UploadVideo(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	return "", "", errors.New("media uploads are not configured")
}

func (c *Client) UploadVideo(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	res, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "video",
		Eager:        videoEager,
		EagerAsync:   &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	thumb := ""
	if len(res.Eager) > 0 {
		thumb = res.Eager[0].SecureURL
	}
	if thumb == "" {
		// first frame as poster
		thumb = fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/so_0/%s.jpg", c.cloudName, res.PublicID)
	}
	return res.SecureURL, thumb, nil
}
