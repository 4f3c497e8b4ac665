package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fastbite/fastbite/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Only fields
// present in the file override the running Config, so a partial file is fine.
type jsonConfig struct {
	Endpoint  *string `json:"endpoint"`
	ProjectID *string `json:"project_id"`
	Platform  *string `json:"platform"`
	APIKey    *string `json:"api_key"`

	DatabaseID *string `json:"database_id"`
	BucketID   *string `json:"bucket_id"`

	UsersCollectionID              *string `json:"users_collection_id"`
	CategoriesCollectionID         *string `json:"categories_collection_id"`
	MenuCollectionID               *string `json:"menu_collection_id"`
	CustomizationsCollectionID     *string `json:"customizations_collection_id"`
	OrdersCollectionID             *string `json:"orders_collection_id"`
	MenuCustomizationsCollectionID *string `json:"menu_customizations_collection_id"`
}

// parseJSON overlays cfg with values from a JSON file. The file path comes
// from the -c/-config flags; with no flag the function is a no-op.
func parseJSON(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setIfPresent(&cfg.Endpoint, jc.Endpoint)
	setIfPresent(&cfg.ProjectID, jc.ProjectID)
	setIfPresent(&cfg.Platform, jc.Platform)
	setIfPresent(&cfg.APIKey, jc.APIKey)
	setIfPresent(&cfg.DatabaseID, jc.DatabaseID)
	setIfPresent(&cfg.BucketID, jc.BucketID)
	setIfPresent(&cfg.UsersCollectionID, jc.UsersCollectionID)
	setIfPresent(&cfg.CategoriesCollectionID, jc.CategoriesCollectionID)
	setIfPresent(&cfg.MenuCollectionID, jc.MenuCollectionID)
	setIfPresent(&cfg.CustomizationsCollectionID, jc.CustomizationsCollectionID)
	setIfPresent(&cfg.OrdersCollectionID, jc.OrdersCollectionID)
	setIfPresent(&cfg.MenuCustomizationsCollectionID, jc.MenuCustomizationsCollectionID)
	return nil
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
