package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/productmanager/manager_api/internal/models"
	"github.com/productmanager/manager_api/internal/service"
	"github.com/productmanager/manager_api/internal/utils"
)

// ProductHandler exposes the product catalog over HTTP.
type ProductHandler struct {
	productService *service.ProductCatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductCatalogService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct handles POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if product.Code == "" {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "code is required")
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), user, &product)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusCreated, resp.Message, resp.Payload, resp.Count)
}

// UpdateProduct handles PUT /v1/products/:code
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	product.Code = c.Param("code")

	resp, err := h.productService.Update(c.Request.Context(), user, &product)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, resp.Payload, resp.Count)
}

// DeleteProduct handles DELETE /v1/products/:code
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	resp, err := h.productService.Delete(c.Request.Context(), user, c.Param("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, gin.H{"modified": resp.Payload}, resp.Count)
}

// ListProducts handles GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	p, err := parseListParams(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	p.Skip, p.Limit = service.ClampPage(p.Skip, p.Limit)

	var resp *models.Response[[]models.Product]
	if p.Filter != "" {
		filter, ferr := models.ParseProductFilter(p.Filter)
		if ferr != nil {
			utils.Error(c, http.StatusBadRequest, "INVALID_FILTER", ferr.Error())
			return
		}
		resp, err = h.productService.ReadFiltered(c.Request.Context(), p.Skip, p.Limit, filter, p.Search, p.Deleted)
	} else {
		resp, err = h.productService.Read(c.Request.Context(), p.Skip, p.Limit, p.Deleted)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, resp.Message, resp.Payload, p.Skip, p.Limit, resp.Count)
}

// GetProduct handles GET /v1/products/:code
func (h *ProductHandler) GetProduct(c *gin.Context) {
	resp, err := h.productService.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, resp.Payload, resp.Count)
}
