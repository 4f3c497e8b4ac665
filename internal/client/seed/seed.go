// Package seed implements the destructive reference-data reload used for
// development and demo environments: verify the schema is provisioned, wipe
// the four reference collections and the media bucket, then load categories,
// customizations, menu items and their link records in dependency order.
//
// The flow is not transactional. A failure partway through the load phase
// leaves a partially-seeded database; re-running wipes first, so repeated
// runs converge on the same result.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fastbite/fastbite/internal/client/backend"
	"github.com/fastbite/fastbite/internal/client/config"
	"github.com/fastbite/fastbite/internal/logging"
	"github.com/fastbite/fastbite/internal/netx"
)

// ErrCollectionNotFound means a target collection is not provisioned. The
// seeder loads data only; schema has to be created in the platform console
// first.
var ErrCollectionNotFound = errors.New("collection not found")

// Seeder wipes and reloads the reference data.
type Seeder struct {
	backend    backend.Client
	cfg        *config.Config
	log        logging.Logger
	data       *Dataset
	httpClient *http.Client
}

// New builds a Seeder over the dataset embedded in the binary.
func New(b backend.Client, cfg *config.Config, log logging.Logger) (*Seeder, error) {
	ds, err := LoadDataset()
	if err != nil {
		return nil, err
	}
	return NewWithDataset(b, cfg, log, ds), nil
}

// NewWithDataset builds a Seeder over an explicit dataset. Used by tests and
// by callers that maintain their own data files.
func NewWithDataset(b backend.Client, cfg *config.Config, log logging.Logger, ds *Dataset) *Seeder {
	return &Seeder{
		backend:    b,
		cfg:        cfg,
		log:        log,
		data:       ds,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// referenceCollections returns the four collections owned by the seeder, in
// wipe order.
func (s *Seeder) referenceCollections() []string {
	return []string{
		s.cfg.CategoriesCollectionID,
		s.cfg.CustomizationsCollectionID,
		s.cfg.MenuCollectionID,
		s.cfg.MenuCustomizationsCollectionID,
	}
}

// Run executes one full seed pass. Every failure is logged and returned;
// partial seeding must be visible to the operator.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.data.Validate(); err != nil {
		return err
	}

	s.log.Info(ctx, "seed started",
		"categories", len(s.data.Categories),
		"customizations", len(s.data.Customizations),
		"menu_items", len(s.data.Menu))

	for _, col := range s.referenceCollections() {
		if err := s.ensureCollection(ctx, col); err != nil {
			s.log.Error(ctx, "seed aborted", "error", err)
			return err
		}
	}

	for _, col := range s.referenceCollections() {
		if err := s.clearCollection(ctx, col); err != nil {
			s.log.Error(ctx, "seed aborted during wipe", "collection", col, "error", err)
			return err
		}
	}
	if err := s.clearBucket(ctx); err != nil {
		s.log.Error(ctx, "seed aborted during bucket wipe", "error", err)
		return err
	}

	categoryIDs, err := s.createCategories(ctx)
	if err != nil {
		s.log.Error(ctx, "seed failed", "error", err)
		return err
	}
	customizationIDs, err := s.createCustomizations(ctx)
	if err != nil {
		s.log.Error(ctx, "seed failed", "error", err)
		return err
	}
	if err := s.createMenu(ctx, categoryIDs, customizationIDs); err != nil {
		s.log.Error(ctx, "seed failed", "error", err)
		return err
	}

	s.log.Info(ctx, "seed complete")
	return nil
}

// ensureCollection verifies the collection is reachable. A 404 becomes
// ErrCollectionNotFound with a provisioning hint; anything else propagates.
func (s *Seeder) ensureCollection(ctx context.Context, collectionID string) error {
	if _, err := s.backend.ListDocuments(ctx, collectionID); err != nil {
		if backend.IsNotFound(err) {
			return fmt.Errorf("%w: %s (create the collection in the platform console, then re-run)",
				ErrCollectionNotFound, collectionID)
		}
		return fmt.Errorf("check collection %s: %w", collectionID, err)
	}
	return nil
}

// clearCollection deletes every document in the collection, fanning the
// deletes out concurrently. A missing collection is tolerated and skipped.
func (s *Seeder) clearCollection(ctx context.Context, collectionID string) error {
	list, err := s.backend.ListDocuments(ctx, collectionID)
	if err != nil {
		if backend.IsNotFound(err) {
			s.log.Warn(ctx, "collection missing during wipe, skipping", "collection", collectionID)
			return nil
		}
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, doc := range list.Documents {
		g.Go(func() error {
			return s.backend.DeleteDocument(ctx, collectionID, doc.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.log.Info(ctx, "collection cleared", "collection", collectionID, "deleted", len(list.Documents))
	return nil
}

// clearBucket deletes every file in the media bucket.
func (s *Seeder) clearBucket(ctx context.Context) error {
	list, err := s.backend.ListFiles(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range list.Files {
		g.Go(func() error {
			return s.backend.DeleteFile(ctx, f.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.log.Info(ctx, "bucket cleared", "deleted", len(list.Files))
	return nil
}

func (s *Seeder) createCategories(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string, len(s.data.Categories))
	for _, cat := range s.data.Categories {
		doc, err := s.backend.CreateDocument(ctx, s.cfg.CategoriesCollectionID, uuid.NewString(), map[string]any{
			"name":        cat.Name,
			"description": cat.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("create category %q: %w", cat.Name, err)
		}
		ids[cat.Name] = doc.ID
	}
	s.log.Info(ctx, "categories created", "count", len(ids))
	return ids, nil
}

func (s *Seeder) createCustomizations(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string, len(s.data.Customizations))
	for _, cus := range s.data.Customizations {
		doc, err := s.backend.CreateDocument(ctx, s.cfg.CustomizationsCollectionID, uuid.NewString(), map[string]any{
			"name":  cus.Name,
			"price": cus.Price,
			"type":  cus.Type,
		})
		if err != nil {
			return nil, fmt.Errorf("create customization %q: %w", cus.Name, err)
		}
		ids[cus.Name] = doc.ID
	}
	s.log.Info(ctx, "customizations created", "count", len(ids))
	return ids, nil
}

// createMenu creates menu items in declaration order, uploading each item's
// image first, then writes one link record per (item, customization) pair.
// Creation stays sequential: links need the ids produced by earlier steps.
func (s *Seeder) createMenu(ctx context.Context, categoryIDs, customizationIDs map[string]string) error {
	links := 0
	for _, item := range s.data.Menu {
		imageURL, err := s.uploadImage(ctx, item.ImageURL)
		if err != nil {
			return fmt.Errorf("menu item %q: %w", item.Name, err)
		}

		doc, err := s.backend.CreateDocument(ctx, s.cfg.MenuCollectionID, uuid.NewString(), map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"image_url":   imageURL,
			"price":       item.Price,
			"rating":      item.Rating,
			"calories":    item.Calories,
			"protein":     item.Protein,
			"categories":  categoryIDs[item.CategoryName],
		})
		if err != nil {
			return fmt.Errorf("create menu item %q: %w", item.Name, err)
		}

		for _, cusName := range item.Customizations {
			if _, err := s.backend.CreateDocument(ctx, s.cfg.MenuCustomizationsCollectionID, uuid.NewString(), map[string]any{
				"menu":          doc.ID,
				"customization": customizationIDs[cusName],
			}); err != nil {
				return fmt.Errorf("link %q to %q: %w", item.Name, cusName, err)
			}
			links++
		}
	}
	s.log.Info(ctx, "menu created", "items", len(s.data.Menu), "links", links)
	return nil
}

// uploadImage downloads the source image, stores it in the bucket and
// returns the public view URL written into the menu document.
func (s *Seeder) uploadImage(ctx context.Context, srcURL string) (string, error) {
	body, contentType, err := netx.DownloadFile(ctx, s.httpClient, srcURL)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}

	name := path.Base(srcURL)
	if name == "." || name == "/" || !strings.Contains(name, ".") {
		name = "image.png"
	}

	f, err := s.backend.UploadFile(ctx, uuid.NewString(), name, contentType, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.backend.FileViewURL(f.ID), nil
}
