package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productmanager/manager_api/internal/models"
	"github.com/productmanager/manager_api/internal/repository"
	"github.com/productmanager/manager_api/internal/utils"
)

var u1 = models.User{Code: "U1"}

func newProductService(store repository.DocumentStore) *ProductCatalogService {
	svc := NewProductCatalogService(store)
	svc.SetClock(fixedClock)
	return svc
}

func widget() *models.Product {
	return &models.Product{
		Code:  "P1",
		Name:  "Widget",
		Brand: "Acme",
		Price: decimal.RequireFromString("9.99"),
	}
}

func TestProductCatalogService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newProductService(repository.NewMemoryDocumentStore())

	resp, err := svc.Create(ctx, u1, widget())
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Count)
	assert.Equal(t, "OK", resp.Message)
	assert.False(t, resp.Payload.Deleted)
	require.Len(t, resp.Payload.History, 1)
	assert.Equal(t, "Created by U1", resp.Payload.History[0].Message)
	assert.Equal(t, fixedNow, resp.Payload.History[0].Timestamp)

	second := widget()
	second.Code = "P2"
	resp, err = svc.Create(ctx, u1, second)
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Count)
}

func TestProductCatalogService_CreateDiscardsClientHistory(t *testing.T) {
	svc := newProductService(repository.NewMemoryDocumentStore())
	p := widget()
	p.Deleted = true
	p.History = []models.HistoryEntry{{Message: "forged"}, {Message: "forged"}}

	resp, err := svc.Create(context.Background(), u1, p)
	require.NoError(t, err)
	assert.False(t, resp.Payload.Deleted)
	require.Len(t, resp.Payload.History, 1)
	assert.Equal(t, "Created by U1", resp.Payload.History[0].Message)
}

func TestProductCatalogService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newProductService(repository.NewMemoryDocumentStore())
	_, err := svc.Create(ctx, u1, widget())
	require.NoError(t, err)

	edit := widget()
	edit.Name = "Widget X"
	edit.URL = "https://cdn.example.com/p1.png"
	edit.Price = decimal.RequireFromString("12.50")

	resp, err := svc.Update(ctx, models.User{Code: "U2"}, edit)
	require.NoError(t, err)
	assert.Equal(t, "OK: 1 modifications", resp.Message)
	assert.EqualValues(t, 1, resp.Count)

	got := resp.Payload
	require.NotNil(t, got)
	assert.Equal(t, "P1", got.Code)
	assert.Equal(t, "Widget X", got.Name)
	assert.Equal(t, "https://cdn.example.com/p1.png", got.URL)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.Price))
	require.Len(t, got.History, 2)
	assert.Equal(t, "Created by U1", got.History[0].Message)
	assert.Equal(t, "Updated by U2", got.History[1].Message)
}

func TestProductCatalogService_UpdateUnknownCode(t *testing.T) {
	svc := newProductService(repository.NewMemoryDocumentStore())
	edit := widget()
	edit.Code = "nope"

	resp, err := svc.Update(context.Background(), u1, edit)
	require.NoError(t, err)
	assert.Equal(t, "OK: 0 modifications", resp.Message)
	assert.Nil(t, resp.Payload)
}

func TestProductCatalogService_DeleteIsSoftAndRepeatable(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryDocumentStore()
	svc := newProductService(store)
	_, err := svc.Create(ctx, u1, widget())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp, err := svc.Delete(ctx, u1, "P1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, resp.Payload)
		assert.EqualValues(t, 0, resp.Count)
	}

	got, err := svc.Get(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, got.Payload.Deleted)
	require.Len(t, got.Payload.History, 3)
	assert.Equal(t, "Deleted by U1", got.Payload.History[2].Message)

	n, err := store.Count(ctx, models.ProductCollection, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestProductCatalogService_ReadClampsLimit(t *testing.T) {
	ctx := context.Background()
	svc := newProductService(repository.NewMemoryDocumentStore())
	for i := 0; i < 120; i++ {
		p := widget()
		p.Code = code("P", i)
		p.Name = code("Item", i)
		_, err := svc.Create(ctx, u1, p)
		require.NoError(t, err)
	}

	resp, err := svc.Read(ctx, 0, 500, false)
	require.NoError(t, err)
	assert.Len(t, resp.Payload, MaxPageSize)
	assert.EqualValues(t, 120, resp.Count)
	assert.Equal(t, "Item119", resp.Payload[0].Name)

	resp, err = svc.Read(ctx, 110, 50, false)
	require.NoError(t, err)
	assert.Len(t, resp.Payload, 10)

	resp, err = svc.ReadFiltered(ctx, 0, 1000, models.ProductFilterName, "item", false)
	require.NoError(t, err)
	assert.Len(t, resp.Payload, MaxPageSize)
}

func TestProductCatalogService_ReadPartitions(t *testing.T) {
	ctx := context.Background()
	svc := newProductService(repository.NewMemoryDocumentStore())
	for _, c := range []string{"A", "B", "C"} {
		p := widget()
		p.Code, p.Name = c, "name "+c
		_, err := svc.Create(ctx, u1, p)
		require.NoError(t, err)
	}
	_, err := svc.Delete(ctx, u1, "B")
	require.NoError(t, err)

	active, err := svc.Read(ctx, 0, 10, false)
	require.NoError(t, err)
	require.Len(t, active.Payload, 2)
	assert.Equal(t, "C", active.Payload[0].Code)
	assert.Equal(t, "A", active.Payload[1].Code)
	assert.EqualValues(t, 2, active.Count)

	trash, err := svc.Read(ctx, 0, 10, true)
	require.NoError(t, err)
	require.Len(t, trash.Payload, 1)
	assert.Equal(t, "B", trash.Payload[0].Code)
	assert.EqualValues(t, 2, trash.Count)
}

func TestProductCatalogService_ReadFiltered(t *testing.T) {
	ctx := context.Background()
	svc := newProductService(repository.NewMemoryDocumentStore())
	seedProducts := []models.Product{
		{Code: "1", Name: "Zeta bolt", Brand: "ACME"},
		{Code: "2", Name: "Alpha nut", Brand: "acme tools"},
		{Code: "3", Name: "Beta gear", Brand: "Globex"},
	}
	for i := range seedProducts {
		_, err := svc.Create(ctx, u1, &seedProducts[i])
		require.NoError(t, err)
	}

	resp, err := svc.ReadFiltered(ctx, 0, 10, models.ProductFilterBrand, "acme", false)
	require.NoError(t, err)
	require.Len(t, resp.Payload, 2)
	assert.Equal(t, "Alpha nut", resp.Payload[0].Name)
	assert.Equal(t, "Zeta bolt", resp.Payload[1].Name)

	all, err := svc.ReadFiltered(ctx, 0, 10, models.ProductFilterName, "", false)
	require.NoError(t, err)
	plain, err := svc.Read(ctx, 0, 10, false)
	require.NoError(t, err)
	assert.Len(t, all.Payload, len(plain.Payload))
	assert.Equal(t, plain.Count, all.Count)

	trash, err := svc.ReadFiltered(ctx, 0, 10, models.ProductFilterBrand, "acme", true)
	require.NoError(t, err)
	assert.Empty(t, trash.Payload)
}

func TestProductCatalogService_ReadFilteredUnknownFilter(t *testing.T) {
	svc := newProductService(repository.NewMemoryDocumentStore())

	_, err := svc.ReadFiltered(context.Background(), 0, 10, models.ProductFilter("history"), "x", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInvalidFilter)
	ce, ok := utils.AsCrudError(err)
	require.True(t, ok)
	assert.Equal(t, productReadFailed, ce.Message)
}

func TestProductCatalogService_GetUnknown(t *testing.T) {
	svc := newProductService(repository.NewMemoryDocumentStore())
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductCatalogService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		failOn  string
		call    func(*ProductCatalogService) error
		message string
	}{
		{"create save", "Save", func(s *ProductCatalogService) error {
			_, err := s.Create(ctx, u1, widget())
			return err
		}, productCreateFailed},
		{"create count", "Count", func(s *ProductCatalogService) error {
			_, err := s.Create(ctx, u1, widget())
			return err
		}, productCreateFailed},
		{"update", "UpdateFirst", func(s *ProductCatalogService) error {
			_, err := s.Update(ctx, u1, widget())
			return err
		}, productEditFailed},
		{"update reload", "FindOne", func(s *ProductCatalogService) error {
			_, err := s.Update(ctx, u1, widget())
			return err
		}, productEditFailed},
		{"delete", "UpdateFirst", func(s *ProductCatalogService) error {
			_, err := s.Delete(ctx, u1, "P1")
			return err
		}, productDeleteFailed},
		{"read", "Find", func(s *ProductCatalogService) error {
			_, err := s.Read(ctx, 0, 10, false)
			return err
		}, productReadFailed},
		{"read filtered", "Find", func(s *ProductCatalogService) error {
			_, err := s.ReadFiltered(ctx, 0, 10, models.ProductFilterName, "w", false)
			return err
		}, productReadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newProductService(&faultyStore{DocumentStore: repository.NewMemoryDocumentStore(), failOn: tt.failOn})
			err := tt.call(svc)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.ErrorIs(t, err, errStore)
		})
	}
}

func TestProductCatalogService_InvalidSearchPattern(t *testing.T) {
	svc := newProductService(repository.NewMemoryDocumentStore())
	_, err := svc.ReadFiltered(context.Background(), 0, 10, models.ProductFilterName, "[", false)
	require.Error(t, err)
	assert.Equal(t, productReadFailed, err.Error())
}
