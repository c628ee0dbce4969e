package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmarochkin/keebshop/internal/events"
	"github.com/dmarochkin/keebshop/internal/logging"
	"github.com/dmarochkin/keebshop/internal/models"
	"github.com/dmarochkin/keebshop/internal/repo"
	"github.com/dmarochkin/keebshop/internal/transport"
)

// ProductIndexer is satisfied by search.ProductIndex. A nil indexer
// disables search mirroring.
type ProductIndexer interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string, size int) ([]uuid.UUID, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  ProductIndexer
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.Discount > 100 {
		return nil, fmt.Errorf("%w: discount must be <= 100", ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
	}

	prod := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Quantity:    req.Quantity,
		Images:      req.Images,
		Specs:       req.Specs,
		Info:        req.Info,
	}

	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_created", created)
	return created, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title required", ErrValidation)
		}
		prod.Title = *req.Title
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		prod.Price = *req.Price
	}
	if req.Discount != nil {
		if *req.Discount > 100 {
			return nil, fmt.Errorf("%w: discount must be <= 100", ErrValidation)
		}
		prod.Discount = *req.Discount
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
		}
		prod.Quantity = *req.Quantity
	}
	if req.Images != nil {
		prod.Images = *req.Images
	}
	if req.Specs != nil {
		prod.Specs = *req.Specs
	}
	if req.Info != nil {
		prod.Info = *req.Info
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_updated", prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	l := logging.FromContext(ctx)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			l.Warn("search_deindex_failed", "product_id", id, "error", err)
		}
	}
	if s.Events != nil {
		event := map[string]any{"type": "product_deleted", "product_id": id}
		if err := s.Events.Publish(ctx, events.TopicProductEvents, id.String(), event); err != nil {
			l.Warn("event_publish_failed", "topic", events.TopicProductEvents, "error", err)
		}
	}
	return nil
}

// SearchProducts asks the index for ranked ids, then loads the rows. With
// no index configured it degrades to a title match in the database.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, limit int) ([]models.Product, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: query required", ErrValidation)
	}

	if s.Index == nil {
		return s.Repo.SearchProductsByTitle(ctx, q, limit)
	}

	ids, err := s.Index.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		prod, err := s.Repo.GetProduct(ctx, id)
		if err != nil {
			// stale index entry
			continue
		}
		items = append(items, *prod)
	}
	return items, nil
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, prod *models.Product) {
	l := logging.FromContext(ctx)
	if s.Index != nil {
		if err := s.Index.Index(ctx, prod); err != nil {
			l.Warn("search_index_failed", "product_id", prod.ID, "error", err)
		}
	}
	if s.Events != nil {
		event := map[string]any{
			"type":       eventType,
			"product_id": prod.ID,
			"title":      prod.Title,
		}
		if err := s.Events.Publish(ctx, events.TopicProductEvents, prod.ID.String(), event); err != nil {
			l.Warn("event_publish_failed", "topic", events.TopicProductEvents, "error", err)
		}
	}
}
