package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/rest/request"
	"github.com/systemink/api/internal/rest/response"
)

const (
	DefaultRankLimit = 10
	RankMax          = 30
)

// PostHandler represent the httphandler for posts
type PostHandler struct {
	Service domain.PostUsecase
}

func NewPostHandler(svc domain.PostUsecase) *PostHandler {
	return &PostHandler{Service: svc}
}

// Fetch lists published posts filtered by tag, author and query.
func (h *PostHandler) Fetch(c *gin.Context) {
	page, limit := pageParams(c)
	filter := domain.PostFilter{
		Page:     page,
		Limit:    limit,
		TagSlug:  c.Query("tag"),
		Username: c.Query("author"),
		Query:    c.Query("q"),
	}

	posts, meta, err := h.Service.FetchPublished(c.Request.Context(), filter)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPaged(newSummaries(posts), meta))
}

func newSummaries(posts []domain.Post) []response.Post {
	res := make([]response.Post, len(posts))
	for i := range posts {
		res[i] = response.NewPostSummaryFromDomain(&posts[i])
	}
	return res
}

func rankLimit(c *gin.Context) int64 {
	limit := queryInt64(c, "limit", DefaultRankLimit)
	if limit < 1 || limit > RankMax {
		limit = DefaultRankLimit
		logrus.Error("Invalid param 'limit'")
	}
	return limit
}

func (h *PostHandler) FetchFeatured(c *gin.Context) {
	posts, err := h.Service.FetchFeatured(c.Request.Context(), rankLimit(c))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, newSummaries(posts))
}

func (h *PostHandler) FetchTrending(c *gin.Context) {
	posts, err := h.Service.FetchTrending(c.Request.Context(), rankLimit(c))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, newSummaries(posts))
}

func (h *PostHandler) Search(c *gin.Context) {
	page, limit := pageParams(c)
	posts, meta, err := h.Service.Search(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPaged(newSummaries(posts), meta))
}

func (h *PostHandler) FetchByAuthor(c *gin.Context) {
	page, limit := pageParams(c)
	filter := domain.PostFilter{
		Page:     page,
		Limit:    limit,
		Username: c.Param("username"),
	}

	posts, meta, err := h.Service.FetchPublished(c.Request.Context(), filter)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPaged(newSummaries(posts), meta))
}

// GetBySlug serves the public reading page for a published post.
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPostFromDomain(&post))
}

func (h *PostHandler) FetchRelated(c *gin.Context) {
	posts, err := h.Service.FetchRelated(c.Request.Context(), c.Param("slug"), rankLimit(c))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, newSummaries(posts))
}

// FetchMine lists the caller's own posts in any status.
func (h *PostHandler) FetchMine(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit := pageParams(c)
	filter := domain.PostFilter{
		Page:    page,
		Limit:   limit,
		TagSlug: c.Query("tag"),
		Status:  domain.PostStatus(c.Query("status")),
	}

	posts, meta, err := h.Service.FetchMine(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPaged(newSummaries(posts), meta))
}

// GetByID serves a post in any status to its author and staff, for editing.
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, role := currentUser(c)
	post, err := h.Service.GetByID(c.Request.Context(), id, userID, role)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPostFromDomain(&post))
}

func (h *PostHandler) Store(c *gin.Context) {
	var req request.Post
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := currentUser(c)
	post := req.ToDomain()
	if err := h.Service.Create(c.Request.Context(), userID, &post, req.TagIDs); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, response.NewPostFromDomain(&post))
}

func (h *PostHandler) Update(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	var req request.UpdatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, role := currentUser(c)
	in := req.ToDomain()
	post, err := h.Service.Update(c.Request.Context(), id, userID, role, &in, req.TagIDs)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPostFromDomain(&post))
}

func (h *PostHandler) Publish(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, role := currentUser(c)
	post, err := h.Service.Publish(c.Request.Context(), id, userID, role)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPostFromDomain(&post))
}

func (h *PostHandler) Unpublish(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, role := currentUser(c)
	post, err := h.Service.Unpublish(c.Request.Context(), id, userID, role)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewPostFromDomain(&post))
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, role := currentUser(c)
	if err := h.Service.Delete(c.Request.Context(), id, userID, role); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordView counts a deduplicated view.
func (h *PostHandler) RecordView(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	counted, err := h.Service.RecordView(c.Request.Context(), id, c.ClientIP())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counted": counted})
}
