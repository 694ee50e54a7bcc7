package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/systemink/api/domain"
)

type UploadHandler struct {
	Service domain.UploadUsecase
}

func NewUploadHandler(svc domain.UploadUsecase) *UploadHandler {
	return &UploadHandler{Service: svc}
}

// Store accepts a multipart image upload and returns its public URL.
func (h *UploadHandler) Store(c *gin.Context) {
	kind := domain.UploadKind(c.DefaultPostForm("type", string(domain.UploadCover)))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	url, err := h.Service.Store(
		c.Request.Context(),
		kind,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		f,
	)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
