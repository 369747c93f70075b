package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/productmanager/manager_api/internal/models"
	"github.com/productmanager/manager_api/internal/repository"
	"github.com/productmanager/manager_api/internal/utils"
)

const (
	productCreateFailed = "critical error creating product"
	productEditFailed   = "critical error editing product"
	productDeleteFailed = "critical error deleting product"
	productReadFailed   = "critical error reading products"
)

// ProductCatalogService handles product CRUD with soft delete and an audit
// history appended on every mutation.
type ProductCatalogService struct {
	products *auditedCollection[models.Product]
}

// NewProductCatalogService constructs a ProductCatalogService.
func NewProductCatalogService(store repository.DocumentStore) *ProductCatalogService {
	return &ProductCatalogService{
		products: newAuditedCollection[models.Product](store, models.ProductCollection),
	}
}

// SetClock replaces the time source used for history timestamps.
func (s *ProductCatalogService) SetClock(now func() time.Time) {
	s.products.now = now
}

// fail logs the store error and rewrites it as a CrudError. The raw message
// is kept at debug level for diagnostics.
func (s *ProductCatalogService) fail(op, message, code string, err error) error {
	log.Error().Err(err).Str("op", op).Str("code", code).Msg("product store call failed")
	log.Debug().Msg(err.Error())
	return utils.NewCrudError(op, message, err)
}

// Create stores product with a single creation history entry.
func (s *ProductCatalogService) Create(ctx context.Context, user models.User, product *models.Product) (*models.Response[*models.Product], error) {
	product.Deleted = false
	product.History = []models.HistoryEntry{s.products.entry(historyCreated, user)}

	if err := s.products.insert(ctx, product.Code, product); err != nil {
		return nil, s.fail(utils.OpCreate, productCreateFailed, product.Code, err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpCreate, productCreateFailed, product.Code, err)
	}

	log.Info().Str("code", product.Code).Str("user", user.Code).Msg("product created")
	return &models.Response[*models.Product]{Count: count, Payload: product, Message: msgOK}, nil
}

// Update overwrites the editable fields of the product identified by
// product.Code and appends an update entry. An unknown code is not an error:
// the response reports zero modifications and a nil payload.
func (s *ProductCatalogService) Update(ctx context.Context, user models.User, product *models.Product) (*models.Response[*models.Product], error) {
	u := repository.NewUpdate().
		Set(models.FieldName, product.Name).
		Set(models.FieldURL, product.URL).
		Set(models.FieldBrand, product.Brand).
		Set(models.FieldPrice, product.Price)

	modified, err := s.products.appendHistory(ctx, product.Code, s.products.entry(historyUpdated, user), u)
	if err != nil {
		return nil, s.fail(utils.OpEdit, productEditFailed, product.Code, err)
	}

	updated, err := s.products.findByCode(ctx, product.Code)
	if err != nil {
		return nil, s.fail(utils.OpEdit, productEditFailed, product.Code, err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpEdit, productEditFailed, product.Code, err)
	}

	return &models.Response[*models.Product]{
		Count:   count,
		Payload: updated,
		Message: modificationsMessage(modified),
	}, nil
}

// Delete soft-deletes the product: deleted is set to true and a deletion
// entry is appended. Repeating it keeps the flag true and grows history.
func (s *ProductCatalogService) Delete(ctx context.Context, user models.User, code string) (*models.Response[int64], error) {
	u := repository.NewUpdate().Set(models.FieldDeleted, true)

	modified, err := s.products.appendHistory(ctx, code, s.products.entry(historyDeleted, user), u)
	if err != nil {
		return nil, s.fail(utils.OpDelete, productDeleteFailed, code, err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpDelete, productDeleteFailed, code, err)
	}

	log.Info().Str("code", code).Str("user", user.Code).Int64("modified", modified).Msg("product deleted")
	return &models.Response[int64]{Count: count, Payload: modified, Message: msgOK}, nil
}

// Read returns one page of the deleted partition sorted by name descending.
func (s *ProductCatalogService) Read(ctx context.Context, skip, limit int, deleted bool) (*models.Response[[]models.Product], error) {
	skip, limit = ClampPage(skip, limit)
	return s.read(ctx, listQuery(skip, limit, deleted, true))
}

// ReadFiltered returns one page of products whose filter field matches search
// case-insensitively, sorted by name ascending.
func (s *ProductCatalogService) ReadFiltered(ctx context.Context, skip, limit int, filter models.ProductFilter, search string, deleted bool) (*models.Response[[]models.Product], error) {
	field, ok := filter.Field()
	if !ok {
		return nil, s.fail(utils.OpRead, productReadFailed, "", fmt.Errorf("%w: %q", utils.ErrInvalidFilter, filter))
	}

	skip, limit = ClampPage(skip, limit)
	return s.read(ctx, listQuery(skip, limit, deleted, false, repository.Matches(field, search)))
}

func (s *ProductCatalogService) read(ctx context.Context, q *repository.Query) (*models.Response[[]models.Product], error) {
	products, err := s.products.page(ctx, q)
	if err != nil {
		return nil, s.fail(utils.OpRead, productReadFailed, "", err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpRead, productReadFailed, "", err)
	}
	return &models.Response[[]models.Product]{Count: count, Payload: products, Message: msgOK}, nil
}

// Get returns a single product with its full history.
func (s *ProductCatalogService) Get(ctx context.Context, code string) (*models.Response[*models.Product], error) {
	product, err := s.products.findByCode(ctx, code)
	if err != nil {
		return nil, s.fail(utils.OpRead, productReadFailed, code, err)
	}
	if product == nil {
		return nil, utils.NewCrudError(utils.OpRead, productReadFailed, repository.ErrNotFound)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpRead, productReadFailed, code, err)
	}
	return &models.Response[*models.Product]{Count: count, Payload: product, Message: msgOK}, nil
}

func (s *ProductCatalogService) activeCount(ctx context.Context) (int64, error) {
	return s.products.count(ctx, false)
}
