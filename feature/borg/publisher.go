package borg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"borg-link/core/storage"
	"borg-link/feature/borg/models"
	"borg-link/feature/borg/raster"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Publisher renders item images and uploads every configured resolution.
type Publisher struct {
	client      storage.Client
	bucket      string
	environment string
	baseURL     string
	resolutions []models.ResolutionSpec
	logger      *zap.Logger
}

// NewPublisher creates a publisher writing to bucket under "{environment}-{resolution}/".
func NewPublisher(client storage.Client, cfg storage.Config, environment string, resolutions []models.ResolutionSpec, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:      client,
		bucket:      cfg.Bucket,
		environment: environment,
		baseURL:     cfg.BaseURL(),
		resolutions: resolutions,
		logger:      logger,
	}
}

// ObjectKey returns the storage key of an item image.
func (p *Publisher) ObjectKey(id int, res models.ResolutionSpec) string {
	return fmt.Sprintf("%s/%d.png", res.Container(p.environment), id)
}

// URLTemplate returns the public URL of an item with the resolution left as a placeholder.
func (p *Publisher) URLTemplate(id int) string {
	return fmt.Sprintf("%s/%s-%s/%d.png", p.baseURL, p.environment, models.ResolutionPlaceholder, id)
}

// Resolutions returns the configured resolutions.
func (p *Publisher) Resolutions() []models.ResolutionSpec {
	return p.resolutions
}

// Publish uploads every resolution of an item that storage does not hold yet. Any
// failed upload fails the whole call; resolutions already uploaded stay in place.
func (p *Publisher) Publish(ctx context.Context, id int, pixels []string) error {
	native := sync.OnceValues(func() (*image.NRGBA, error) {
		return raster.Native(pixels)
	})

	g, ctx := errgroup.WithContext(ctx)
	for _, res := range p.resolutions {
		g.Go(func() error {
			return p.publishOne(ctx, id, res, native)
		})
	}
	return g.Wait()
}

func (p *Publisher) publishOne(ctx context.Context, id int, res models.ResolutionSpec, native func() (*image.NRGBA, error)) error {
	key := p.ObjectKey(id, res)

	exists, err := storage.ObjectExists(ctx, p.client, p.bucket, key)
	if err != nil {
		return err
	}
	if exists {
		p.logger.Debug("Image already published", zap.String("key", key))
		return nil
	}

	src, err := native()
	if err != nil {
		return fmt.Errorf("failed to rasterize item %d: %w", id, err)
	}
	data, err := raster.EncodePNG(raster.Render(src, res.Width, res.Height, res.Crop))
	if err != nil {
		return err
	}

	_, err = p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/png",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	p.logger.Debug("Published image", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}
