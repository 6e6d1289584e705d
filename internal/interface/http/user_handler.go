package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
	"github.com/oksasatya/today-todo/pkg/helpers"
	"github.com/oksasatya/today-todo/pkg/optional"
	"github.com/oksasatya/today-todo/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc      *application.UserService
	Identity *application.IdentityService
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewUserHandler(svc *application.UserService, identity *application.IdentityService, logger *logrus.Logger, cookies *helpers.Manager) *UserHandler {
	return &UserHandler{Svc: svc, Identity: identity, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,pwd"`
	Nickname string `json:"nickname" binding:"max=64"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Nickname optional.Field[string] `json:"nickname"`
	Bio      optional.Field[string] `json:"bio"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUser(u), "registered", nil)
}

// Login authenticates, sets the token cookies and merges the caller's guest data into the account.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	u, pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)

	if actor := middleware.ActorFrom(c); actor.IsGuest() {
		if err := h.Identity.MergeGuest(ctx, actor.GuestID, u.ID); err != nil {
			h.Logger.WithError(err).WithField("user_id", u.ID).Error("merge guest data failed")
		} else {
			h.Cookies.ClearGuestID(c)
		}
	}
	response.Success(c, http.StatusOK, toUser(u), "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshTokenCookie)
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if actor := middleware.ActorFrom(c); actor.IsUser() {
		if err := h.Svc.Logout(c.Request.Context(), actor.UserID); err != nil {
			h.Logger.WithError(err).WithField("user_id", actor.UserID).Warn("delete session failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, err := application.RequireUser(middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	p, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(p), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, err := application.RequireUser(middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{Nickname: req.Nickname, Bio: req.Bio})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(p), "profile updated", nil)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid, err := application.RequireUser(middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "avatar file is required", map[string]string{"avatar": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile_image": url}, "avatar uploaded", nil)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	uid, err := application.RequireUser(middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), uid); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	deleted(c, "account deleted")
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", nil)
}
