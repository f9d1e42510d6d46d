package borg

import (
	"fmt"
	"time"

	"borg-link/feature/borg/models"
)

const (
	// FirstItemID is the id the contract assigns to its first item.
	FirstItemID = 1
)

// Config holds configuration for the borg catalog.
type Config struct {
	// DefaultSize and DefaultCrop describe the small thumbnail.
	DefaultSize int `mapstructure:"default_size" default:"24"`
	DefaultCrop int `mapstructure:"default_crop" default:"0"`
	// MediumSize and MediumCrop describe the medium render.
	MediumSize int `mapstructure:"medium_size" default:"600"`
	MediumCrop int `mapstructure:"medium_crop" default:"14"`
	// LargeSize and LargeCrop describe the large render used for marketplace metadata.
	LargeSize int `mapstructure:"large_size" default:"1400"`
	LargeCrop int `mapstructure:"large_crop" default:"30"`

	// DefaultPerPage is the page size when none is requested.
	DefaultPerPage int `mapstructure:"default_per_page" default:"36"`
	// MaxPerPage is the largest page size a client may request.
	MaxPerPage int `mapstructure:"max_per_page" default:"1000"`

	// ListCacheSeconds is the TTL of list, count, rarity and OpenSea responses.
	ListCacheSeconds int `mapstructure:"list_cache_seconds" default:"30"`
	// ItemCacheSeconds is the TTL of single item responses.
	ItemCacheSeconds int `mapstructure:"item_cache_seconds" default:"20"`

	// SyncSchedule drives the gap detector.
	SyncSchedule string `mapstructure:"sync_schedule" default:"@every 1m"`
	// BackfillSchedule drives the parent/child relation back-fill.
	BackfillSchedule string `mapstructure:"backfill_schedule" default:"@every 10m"`
	// PingURL is fetched on PingSchedule to keep a host awake. Empty disables it.
	PingURL      string `mapstructure:"ping_url" default:""`
	PingSchedule string `mapstructure:"ping_schedule" default:"@every 5m"`

	// OpenSea metadata constants.
	Description     string `mapstructure:"description" default:"This is a borg"`
	ExternalURL     string `mapstructure:"external_url" default:"https://borgs.app/"`
	BackgroundColor string `mapstructure:"background_color" default:""`
}

// Resolutions returns the configured render sizes in ascending order.
func (c Config) Resolutions() []models.ResolutionSpec {
	return []models.ResolutionSpec{
		{Name: models.ResolutionDefault, Width: c.DefaultSize, Height: c.DefaultSize, Crop: c.DefaultCrop},
		{Name: models.ResolutionMedium, Width: c.MediumSize, Height: c.MediumSize, Crop: c.MediumCrop},
		{Name: models.ResolutionLarge, Width: c.LargeSize, Height: c.LargeSize, Crop: c.LargeCrop},
	}
}

// Validate checks the resolution and paging settings.
func (c Config) Validate() error {
	for _, r := range c.Resolutions() {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if c.DefaultPerPage <= 0 || c.MaxPerPage < c.DefaultPerPage {
		return fmt.Errorf("invalid paging: default %d, max %d", c.DefaultPerPage, c.MaxPerPage)
	}
	return nil
}

func (c Config) listTTL() time.Duration {
	return time.Duration(c.ListCacheSeconds) * time.Second
}

func (c Config) itemTTL() time.Duration {
	return time.Duration(c.ItemCacheSeconds) * time.Second
}
