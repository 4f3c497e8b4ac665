package services

import (
	"context"
	"fmt"

	"github.com/fastbite/fastbite/internal/client/backend"
	"github.com/fastbite/fastbite/internal/client/config"
	"github.com/fastbite/fastbite/internal/client/models"
	"github.com/fastbite/fastbite/internal/logging"
)

// MenuService reads the seeded reference data.
type MenuService interface {
	// Menu lists menu items, optionally filtered by category id and a
	// full-text search on the name.
	Menu(ctx context.Context, categoryID, search string) ([]models.MenuItem, error)

	// Categories lists all categories ordered by name. An unprovisioned
	// categories collection yields an empty slice, not an error.
	Categories(ctx context.Context) ([]models.Category, error)
}

type menuService struct {
	backend backend.Client
	cfg     *config.Config
	log     logging.Logger
}

// NewMenuService constructs a MenuService bound to the given backend client.
func NewMenuService(b backend.Client, cfg *config.Config, log logging.Logger) MenuService {
	return &menuService{backend: b, cfg: cfg, log: log}
}

func (s *menuService) Menu(ctx context.Context, categoryID, search string) ([]models.MenuItem, error) {
	var queries []backend.Query
	if categoryID != "" {
		queries = append(queries, backend.Equal("categories", categoryID))
	}
	if search != "" {
		queries = append(queries, backend.Search("name", search))
	}

	list, err := s.backend.ListDocuments(ctx, s.cfg.MenuCollectionID, queries...)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}

	items := make([]models.MenuItem, 0, len(list.Documents))
	for i := range list.Documents {
		items = append(items, models.MenuItemFromDocument(&list.Documents[i]))
	}
	return items, nil
}

func (s *menuService) Categories(ctx context.Context) ([]models.Category, error) {
	list, err := s.backend.ListDocuments(ctx, s.cfg.CategoriesCollectionID, backend.OrderAsc("name"))
	if err != nil {
		if backend.IsNotFound(err) {
			s.log.Warn(ctx, "categories collection not found, has the database been seeded?",
				"collection", s.cfg.CategoriesCollectionID)
			return []models.Category{}, nil
		}
		return nil, fmt.Errorf("list categories: %w", err)
	}

	cats := make([]models.Category, 0, len(list.Documents))
	for i := range list.Documents {
		cats = append(cats, models.CategoryFromDocument(&list.Documents[i]))
	}
	return cats, nil
}
