package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID  string      `json:"requestId"`
	Timestamp  string      `json:"timestamp"`
	Count      *int64      `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination echoes the effective window of a list response.
type Pagination struct {
	Skip       int   `json:"skip"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessWithCount writes a success response carrying the record count of
// the collection the operation touched.
func SuccessWithCount(c *gin.Context, code int, message string, data any, count int64) {
	meta := newMeta(c)
	meta.Count = &count
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// SuccessWithPagination writes a list response with pagination metadata.
func SuccessWithPagination(c *gin.Context, code int, message string, data any, skip, limit int, totalItems int64) {
	meta := newMeta(c)
	meta.Count = &totalItems
	meta.Pagination = &Pagination{
		Skip:       skip,
		Limit:      limit,
		TotalItems: totalItems,
	}
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
		},
		Meta: newMeta(c),
	})
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
