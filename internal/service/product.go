package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/util"
	"github.com/Skotchmaster/inventory/pkg/events"
	"github.com/Skotchmaster/inventory/pkg/logging"
)

var ErrSearchUnavailable = errors.New("search index is not configured")

// ProductService owns the product catalogue. Events and Index are optional.
type ProductService struct {
	Repo   ProductRepo
	Tokens TokenDecoder
	Events EventPublisher
	Index  ProductIndex
}

// CreateProduct attributes the new product to the subject of token. The
// token must already have been verified by the auth guard; it is only
// decoded here. The subject must still exist, since a token outlives the
// deletion of its user.
func (s *ProductService) CreateProduct(ctx context.Context, token string, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	claims := s.Tokens.Decode(token)
	if claims == nil {
		l.Warn("product_create_error", "status", 404, "reason", "token has no subject")
		return nil, fail(ErrNotFound, transport.MsgUserNotFound)
	}

	exists, err := s.Repo.UserExists(ctx, claims.Subject)
	if err != nil {
		l.Error("product_create_error", "status", 500, "reason", "cannot resolve creator", "error", err)
		return nil, fmt.Errorf("resolve creator: %w", err)
	}
	if !exists {
		l.Warn("product_create_error", "status", 404, "reason", "token subject no longer exists", "user_id", claims.Subject)
		return nil, fail(ErrNotFound, transport.MsgUserNotFound)
	}

	if err := validation(req.Validate()); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	taken, err := s.Repo.ProductTitleTaken(ctx, title, "")
	if err != nil {
		l.Error("product_create_error", "status", 500, "reason", "cannot check title", "error", err)
		return nil, fmt.Errorf("check product title: %w", err)
	}
	if taken {
		l.Warn("product_create_error", "status", 409, "reason", "title already used", "title", title)
		return nil, fail(ErrConflict, transport.MsgProductAlreadyExists)
	}

	product := &models.Product{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Quantity:    req.Quantity,
		Price:       req.Price,
		CreatedBy:   claims.Subject,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			l.Warn("product_create_error", "status", 409, "reason", "lost uniqueness race", "title", title)
			return nil, fail(ErrConflict, transport.MsgProductAlreadyExists)
		}
		if errors.Is(err, repo.ErrReferenced) {
			l.Warn("product_create_error", "status", 404, "reason", "creator deleted concurrently", "user_id", claims.Subject)
			return nil, fail(ErrNotFound, transport.MsgUserNotFound)
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.reindex(ctx, product)
	publish(ctx, s.Events, events.TopicProductEvents, product.ID, productEvent("product_created", product.ID, product.Title))
	l.Info("product_created", "product_id", product.ID, "created_by", product.CreatedBy)
	return product, nil
}

func (s *ProductService) EditProduct(ctx context.Context, id string, req transport.PatchProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.edit", "product_id", id)

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validation(req.Validate()); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != product.Title {
			taken, err := s.Repo.ProductTitleTaken(ctx, title, product.ID)
			if err != nil {
				l.Error("product_edit_error", "status", 500, "reason", "cannot check title", "error", err)
				return nil, fmt.Errorf("check product title: %w", err)
			}
			if taken {
				l.Warn("product_edit_error", "status", 409, "reason", "title already used", "title", title)
				return nil, fail(ErrConflict, transport.MsgProductAlreadyExists)
			}
		}
		product.Title = title
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, fail(ErrConflict, transport.MsgProductAlreadyExists)
		}
		l.Error("product_edit_error", "status", 500, "reason", "cannot save product", "error", err)
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.reindex(ctx, product)
	publish(ctx, s.Events, events.TopicProductEvents, product.ID, productEvent("product_updated", product.ID, product.Title))
	l.Info("product_updated")
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "product.delete", "product_id", id)

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "product not found")
			return fail(ErrNotFound, transport.MsgProductNotFound)
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product", "error", err)
		return fmt.Errorf("delete product: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Error("search_index_error", "op", "delete", "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProductEvents, id, productEvent("product_deleted", id, ""))
	l.Info("product_deleted")
	return nil
}

// ListProducts returns every product regardless of who created it.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("product_list_error", "status", 500, "error", err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fail(ErrNotFound, transport.MsgProductNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query string, page, size int) (*transport.ProductPage, error) {
	if s.Index == nil {
		return nil, ErrSearchUnavailable
	}
	page, size, from := util.Page(page, size)

	total, items, err := s.Index.Search(ctx, strings.TrimSpace(query), from, size)
	if err != nil {
		logging.FromContext(ctx).Error("product_search_error", "status", 502, "query", query, "error", err)
		return nil, fmt.Errorf("search products: %w", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return &transport.ProductPage{Items: items, Total: total, Page: page, Size: size}, nil
}

func (s *ProductService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "op", "index", "product_id", p.ID, "error", err)
	}
}
