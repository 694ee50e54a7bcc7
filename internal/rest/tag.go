package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/rest/request"
	"github.com/systemink/api/internal/rest/response"
)

type TagHandler struct {
	Service domain.TagUsecase
}

func NewTagHandler(svc domain.TagUsecase) *TagHandler {
	return &TagHandler{Service: svc}
}

func (h *TagHandler) FetchAll(c *gin.Context) {
	tags, err := h.Service.FetchAll(c.Request.Context())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Tag, len(tags))
	for i := range tags {
		res[i] = response.NewTagFromDomain(&tags[i])
	}
	c.JSON(http.StatusOK, res)
}

func (h *TagHandler) GetBySlug(c *gin.Context) {
	tag, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewTagFromDomain(&tag))
}

func (h *TagHandler) Store(c *gin.Context) {
	var req request.Tag
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.Service.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, response.NewTagFromDomain(&tag))
}

func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
