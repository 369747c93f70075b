package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/productmanager/manager_api/internal/models"
	"github.com/productmanager/manager_api/internal/service"
	"github.com/productmanager/manager_api/internal/utils"
)

// SupplierHandler exposes the supplier directory over HTTP.
type SupplierHandler struct {
	supplierService *service.SupplierDirectoryService
}

// NewSupplierHandler constructs a SupplierHandler.
func NewSupplierHandler(supplierService *service.SupplierDirectoryService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// CreateSupplier handles POST /v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if supplier.Code == "" {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "code is required")
		return
	}

	resp, err := h.supplierService.Create(c.Request.Context(), user, &supplier)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusCreated, resp.Message, resp.Payload, resp.Count)
}

// UpdateSupplier handles PUT /v1/suppliers/:code
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	supplier.Code = c.Param("code")

	resp, err := h.supplierService.Update(c.Request.Context(), user, &supplier)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, resp.Payload, resp.Count)
}

// ToggleSupplier handles DELETE /v1/suppliers/:code. Calling it on a trashed
// supplier restores it.
func (h *SupplierHandler) ToggleSupplier(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	resp, err := h.supplierService.Delete(c.Request.Context(), user, c.Param("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, gin.H{"modified": resp.Payload}, resp.Count)
}

// CleanTrash handles DELETE /v1/suppliers/trash?code=
func (h *SupplierHandler) CleanTrash(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	resp, err := h.supplierService.CleanTrash(c.Request.Context(), c.Query("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, gin.H{"removed": resp.Payload}, resp.Count)
}

// ListSuppliers handles GET /v1/suppliers
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	p, err := parseListParams(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	p.Skip, p.Limit = service.ClampPage(p.Skip, p.Limit)

	var resp *models.Response[[]models.Supplier]
	if p.Filter != "" {
		filter, ferr := models.ParseSupplierFilter(p.Filter)
		if ferr != nil {
			utils.Error(c, http.StatusBadRequest, "INVALID_FILTER", ferr.Error())
			return
		}
		resp, err = h.supplierService.ReadFiltered(c.Request.Context(), p.Skip, p.Limit, filter, p.Search, p.Deleted)
	} else {
		resp, err = h.supplierService.Read(c.Request.Context(), p.Skip, p.Limit, p.Deleted)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, resp.Message, resp.Payload, p.Skip, p.Limit, resp.Count)
}

// ListSupplierOptions handles GET /v1/suppliers/select
func (h *SupplierHandler) ListSupplierOptions(c *gin.Context) {
	resp, err := h.supplierService.ReadSelect(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, resp.Payload, resp.Count)
}

// GetSupplier handles GET /v1/suppliers/:code
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	resp, err := h.supplierService.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessWithCount(c, http.StatusOK, resp.Message, resp.Payload, resp.Count)
}
