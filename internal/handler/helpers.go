package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/productmanager/manager_api/internal/models"
	"github.com/productmanager/manager_api/internal/repository"
	"github.com/productmanager/manager_api/internal/utils"
)

// ContextUserCode and ContextUserEmail are the gin context keys the JWT
// middleware fills in.
const (
	ContextUserCode  = "user_code"
	ContextUserEmail = "user_email"
)

// listParams are the query parameters shared by the list endpoints.
type listParams struct {
	Skip    int
	Limit   int
	Deleted bool
	Filter  string
	Search  string
}

func parseListParams(c *gin.Context) (listParams, error) {
	p := listParams{
		Filter: c.Query("filter"),
		Search: c.Query("search"),
	}
	var err error
	if v := c.Query("skip"); v != "" {
		if p.Skip, err = strconv.Atoi(v); err != nil {
			return p, errors.New("skip must be an integer")
		}
	}
	if v := c.Query("limit"); v != "" {
		if p.Limit, err = strconv.Atoi(v); err != nil {
			return p, errors.New("limit must be an integer")
		}
	}
	if v := c.Query("deleted"); v != "" {
		if p.Deleted, err = strconv.ParseBool(v); err != nil {
			return p, errors.New("deleted must be a boolean")
		}
	}
	return p, nil
}

// currentUser returns the acting user set by the JWT middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	code := c.GetString(ContextUserCode)
	if code == "" {
		return models.User{}, false
	}
	return models.User{Code: code, Email: c.GetString(ContextUserEmail)}, true
}

func requireUser(c *gin.Context) (models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user identity")
	}
	return user, ok
}

// writeServiceError maps a service error onto the API envelope.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidFilter):
		utils.Error(c, http.StatusBadRequest, "INVALID_FILTER", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		if ce, ok := utils.AsCrudError(err); ok {
			utils.Error(c, http.StatusInternalServerError, "CRUD_ERROR", ce.Message)
			return
		}
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
