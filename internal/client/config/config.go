// Package config assembles runtime settings for the FastBite client binaries.
//
// Sources are applied in order of increasing precedence:
//
//	defaults -> environment -> JSON file (-c/-config) -> command-line flags
//
// The endpoint, project id and platform id are mandatory; Load fails when any
// of them is still empty after all sources were applied. Callers are expected
// to treat that failure as fatal.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name, e.g.
// FASTBITE_ENDPOINT, FASTBITE_PROJECT_ID.
const EnvPrefix = "FASTBITE"

// ErrMissingConfig marks a fatal startup condition: one of the required
// platform settings was not provided by any source.
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds every setting needed to reach the backend platform.
//
// Endpoint, ProjectID and Platform identify the hosted project; DatabaseID,
// BucketID and the collection ids select the provisioned schema. APIKey is
// only needed for server-side seeding.
type Config struct {
	Endpoint  string `envconfig:"ENDPOINT" json:"endpoint"`
	ProjectID string `envconfig:"PROJECT_ID" json:"project_id"`
	Platform  string `envconfig:"PLATFORM" json:"platform"`
	APIKey    string `envconfig:"API_KEY" json:"api_key"`

	DatabaseID string `envconfig:"DATABASE_ID" json:"database_id"`
	BucketID   string `envconfig:"BUCKET_ID" json:"bucket_id"`

	UsersCollectionID              string `envconfig:"USERS_COLLECTION_ID" json:"users_collection_id"`
	CategoriesCollectionID         string `envconfig:"CATEGORIES_COLLECTION_ID" json:"categories_collection_id"`
	MenuCollectionID               string `envconfig:"MENU_COLLECTION_ID" json:"menu_collection_id"`
	CustomizationsCollectionID     string `envconfig:"CUSTOMIZATIONS_COLLECTION_ID" json:"customizations_collection_id"`
	OrdersCollectionID             string `envconfig:"ORDERS_COLLECTION_ID" json:"orders_collection_id"`
	MenuCustomizationsCollectionID string `envconfig:"MENU_CUSTOMIZATIONS_COLLECTION_ID" json:"menu_customizations_collection_id"`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" json:"-"`
}

// LoadDefaults populates c with the known provisioned ids and sane timeouts.
func (c *Config) LoadDefaults() {
	c.Endpoint = ""
	c.ProjectID = ""
	c.Platform = ""
	c.DatabaseID = "692a9ab40026a0f4194e"
	c.BucketID = "69306ea2002af87301b9"
	c.UsersCollectionID = "users"
	c.CategoriesCollectionID = "categories"
	c.MenuCollectionID = "menu"
	c.CustomizationsCollectionID = "customization"
	c.OrdersCollectionID = "orders"
	c.MenuCustomizationsCollectionID = "menu_customizations"
	c.RequestTimeout = 30 * time.Second
}

// Validate reports whether the mandatory platform settings are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: endpoint", ErrMissingConfig)
	}
	if c.ProjectID == "" {
		return fmt.Errorf("%w: project id", ErrMissingConfig)
	}
	if c.Platform == "" {
		return fmt.Errorf("%w: platform id", ErrMissingConfig)
	}
	return nil
}

// Load constructs a Config, applies defaults, then overlays values from the
// environment, a JSON file (if given) and command-line flags. Later sources
// take precedence over earlier ones.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseEnv overlays cfg with FASTBITE_* environment variables. Unset
// variables leave the existing values untouched.
func parseEnv(cfg *Config) error {
	overlay := *cfg
	if err := envconfig.Process(EnvPrefix, &overlay); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	*cfg = overlay
	return nil
}
