package service

import (
	"context"

	"github.com/productmanager/manager_api/internal/models"
)

// CrudService is the shape shared by the catalog services. T is the record
// type and F the closed set of fields a search may target.
type CrudService[T any, F any] interface {
	Create(ctx context.Context, user models.User, obj *T) (*models.Response[*T], error)
	Update(ctx context.Context, user models.User, obj *T) (*models.Response[*T], error)
	Delete(ctx context.Context, user models.User, code string) (*models.Response[int64], error)
	Read(ctx context.Context, skip, limit int, deleted bool) (*models.Response[[]T], error)
	ReadFiltered(ctx context.Context, skip, limit int, filter F, search string, deleted bool) (*models.Response[[]T], error)
	Get(ctx context.Context, code string) (*models.Response[*T], error)
}

var (
	_ CrudService[models.Product, models.ProductFilter]   = (*ProductCatalogService)(nil)
	_ CrudService[models.Supplier, models.SupplierFilter] = (*SupplierDirectoryService)(nil)
)
