package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/systemink/api/domain"
)

type FeedHandler struct {
	Service domain.FeedUsecase
}

func NewFeedHandler(svc domain.FeedUsecase) *FeedHandler {
	return &FeedHandler{Service: svc}
}

func (h *FeedHandler) RSS(c *gin.Context) {
	feed, err := h.Service.RSS(c.Request.Context())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(feed))
}

func (h *FeedHandler) Sitemap(c *gin.Context) {
	sitemap, err := h.Service.Sitemap(c.Request.Context())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(sitemap))
}

func (h *FeedHandler) Robots(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.Service.Robots()))
}
