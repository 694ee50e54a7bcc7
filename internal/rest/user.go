package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/rest/request"
	"github.com/systemink/api/internal/rest/response"
)

type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{Service: svc}
}

// FetchAuthors lists users with at least one published post.
func (h *UserHandler) FetchAuthors(c *gin.Context) {
	page, limit := pageParams(c)
	viewerID, _ := currentUser(c)

	profiles, meta, err := h.Service.FetchAuthors(c.Request.Context(), page, limit, viewerID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Profile, len(profiles))
	for i := range profiles {
		res[i] = response.NewProfileFromDomain(&profiles[i])
	}
	c.JSON(http.StatusOK, response.NewPaged(res, meta))
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	viewerID, _ := currentUser(c)
	profile, err := h.Service.GetProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewProfileFromDomain(&profile))
}

func (h *UserHandler) ToggleFollow(c *gin.Context) {
	userID, _ := currentUser(c)
	state, err := h.Service.ToggleFollow(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"following":      state.Following,
		"followersCount": state.FollowersCount,
	})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req request.UpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := currentUser(c)
	user, err := h.Service.UpdateProfile(c.Request.Context(), userID, req.Name, req.Bio, req.AvatarURL, req.Links)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewAccountFromDomain(&user))
}

// FetchAll lists every account. Routed behind the admin gate.
func (h *UserHandler) FetchAll(c *gin.Context) {
	page, limit := pageParams(c)
	users, meta, err := h.Service.FetchAll(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.User, len(users))
	for i := range users {
		res[i] = response.NewAccountFromDomain(&users[i])
	}
	c.JSON(http.StatusOK, response.NewPaged(res, meta))
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	var req request.UpdateRole
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, _ := currentUser(c)
	user, err := h.Service.UpdateRole(c.Request.Context(), id, adminID, domain.Role(req.Role))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewAccountFromDomain(&user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	adminID, _ := currentUser(c)
	if err := h.Service.DeleteUser(c.Request.Context(), id, adminID); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
