package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/rest/request"
	"github.com/systemink/api/internal/rest/response"
)

type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{Service: svc}
}

// FetchTrees lists one page of comment trees for a post. The viewer is
// resolved from the optional auth middleware, 0 for anonymous.
func (h *CommentHandler) FetchTrees(c *gin.Context) {
	postID, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	page, limit := pageParams(c)
	viewerID, _ := currentUser(c)

	treePage, err := h.Service.ListTrees(c.Request.Context(), postID, page, limit, viewerID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	data := make([]*response.Comment, 0, len(treePage.Data))
	for _, node := range treePage.Data {
		data = append(data, response.NewCommentFromDomain(node))
	}
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": response.NewPageMeta(treePage.Meta),
	})
}

func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := currentUser(c)
	comment, err := h.Service.Create(c.Request.Context(), postID, userID, req.Body, req.ParentID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, response.NewCommentFromDomain(comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := paramInt64(c, "commentId")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, role := currentUser(c)
	if err := h.Service.Delete(c.Request.Context(), commentID, userID, role); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// Moderate sets the status directly. Admin gate lives in the route group.
func (h *CommentHandler) Moderate(c *gin.Context) {
	commentID, err := paramInt64(c, "commentId")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	var req request.ModerateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Moderate(c.Request.Context(), commentID, domain.CommentStatus(req.Status)); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment moderated"})
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	commentID, err := paramInt64(c, "commentId")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, _ := currentUser(c)
	state, err := h.Service.ToggleLike(c.Request.Context(), commentID, userID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}
