package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/systemink/api/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

const (
	DefaultPageNum = 1
	DefaultLimit   = 20
	MaxLimit       = 100
)

// getStatusCode maps domain errors to HTTP codes.
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch err {
	case domain.ErrInternalServerError:
		return http.StatusInternalServerError
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// currentUser reads the identity the auth middleware stored, 0 for anonymous.
func currentUser(c *gin.Context) (int64, domain.Role) {
	id, exists := c.Get("user_id")
	if !exists {
		return 0, ""
	}
	role, _ := c.Get("role")
	r, _ := role.(domain.Role)
	return id.(int64), r
}

func queryInt64(c *gin.Context, key string, def int64) int64 {
	s := c.Query(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func paramInt64(c *gin.Context, key string) (int64, error) {
	return strconv.ParseInt(c.Param(key), 10, 64)
}

// pageParams parses page and limit query params with clamping.
func pageParams(c *gin.Context) (page, limit int64) {
	page = queryInt64(c, "page", DefaultPageNum)
	if page < 1 {
		page = DefaultPageNum
	}
	limit = queryInt64(c, "limit", DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
