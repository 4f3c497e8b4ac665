package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var embeddedDataset []byte

// Dataset is the reference data loaded by a seed run. Categories and
// customizations are referenced from menu items by name; those references
// are resolved to document ids during the load phase.
type Dataset struct {
	Categories     []CategoryData      `yaml:"categories"`
	Customizations []CustomizationData `yaml:"customizations"`
	Menu           []MenuItemData      `yaml:"menu"`
}

type CategoryData struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type CustomizationData struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
	Type  string  `yaml:"type"`
}

type MenuItemData struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	ImageURL       string   `yaml:"image_url"`
	Price          float64  `yaml:"price"`
	Rating         float64  `yaml:"rating"`
	Calories       int      `yaml:"calories"`
	Protein        int      `yaml:"protein"`
	CategoryName   string   `yaml:"category_name"`
	Customizations []string `yaml:"customizations"`
}

// LoadDataset parses the dataset embedded in the binary.
func LoadDataset() (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(embeddedDataset, &ds); err != nil {
		return nil, fmt.Errorf("seed: parse dataset: %w", err)
	}
	return &ds, nil
}

// Validate checks the dataset's internal references before any network call:
// names must be unique, and every category or customization a menu item
// refers to must exist.
func (d *Dataset) Validate() error {
	if len(d.Categories) == 0 || len(d.Customizations) == 0 || len(d.Menu) == 0 {
		return fmt.Errorf("seed: dataset is incomplete")
	}

	categories := make(map[string]struct{}, len(d.Categories))
	for _, c := range d.Categories {
		if _, dup := categories[c.Name]; dup {
			return fmt.Errorf("seed: duplicate category %q", c.Name)
		}
		categories[c.Name] = struct{}{}
	}

	customizations := make(map[string]struct{}, len(d.Customizations))
	for _, c := range d.Customizations {
		if _, dup := customizations[c.Name]; dup {
			return fmt.Errorf("seed: duplicate customization %q", c.Name)
		}
		customizations[c.Name] = struct{}{}
	}

	for _, item := range d.Menu {
		if _, ok := categories[item.CategoryName]; !ok {
			return fmt.Errorf("seed: menu item %q references unknown category %q", item.Name, item.CategoryName)
		}
		for _, cus := range item.Customizations {
			if _, ok := customizations[cus]; !ok {
				return fmt.Errorf("seed: menu item %q references unknown customization %q", item.Name, cus)
			}
		}
	}
	return nil
}
