package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oleksiikond/contactdeck/internal/adapters/transport/http/dto"
	"github.com/oleksiikond/contactdeck/internal/app/auth/service"
	"github.com/oleksiikond/contactdeck/internal/app/auth/verify"
	authErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
	"github.com/oleksiikond/contactdeck/internal/domain/user/model"
)

const ctxUserKey = "currentUser"

type Handler struct {
	svc  service.Service
	flow *verify.Flow
	v    *validator.Validate
	log  *zap.Logger
}

func NewHandler(svc service.Service, flow *verify.Flow, v *validator.Validate, log *zap.Logger) *Handler {
	return &Handler{svc: svc, flow: flow, v: v, log: log}
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// login accepts the classic OAuth2 password form: username + password.
func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *Handler) refreshToken(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *Handler) confirmEmail(c *gin.Context) {
	msg, err := h.flow.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

func (h *Handler) requestEmail(c *gin.Context) {
	var body dto.RequestEmailDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.flow.RequestConfirmation(c.Request.Context(), body.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *Handler) requestResetPassword(c *gin.Context) {
	var body dto.RequestEmailDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.flow.RequestPasswordReset(c.Request.Context(), body.Email); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: verify.MsgCheckEmail})
}

func (h *Handler) resetPasswordForm(c *gin.Context) {
	msg, err := h.flow.ProbeReset(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var body dto.ResetPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.v.Struct(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.flow.CompleteReset(c.Request.Context(), body.Token, body.NewPassword)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: user.Username + ", your password was changed successfully!",
	})
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.svc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// authenticate resolves the Bearer token into a user and stashes it on the
// request context for downstream handlers.
func (h *Handler) authenticate(c *gin.Context) {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	user, err := h.svc.CurrentUser(c.Request.Context(), header[len(prefix):])
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Set(ctxUserKey, user)
	c.Next()
}

func (h *Handler) requireAdmin(c *gin.Context) {
	if _, err := h.svc.RequireAdmin(currentUser(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) model.User {
	u, _ := c.Get(ctxUserKey)
	user, _ := u.(model.User)
	return user
}

func handleError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": messageFor(err)})
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": messageFor(err)})
}

func statusFor(err error) int {
	switch {
	case authErrors.IsInvalidArgument(err):
		return http.StatusBadRequest
	case authErrors.IsUnauthorized(err), authErrors.IsInvalidToken(err):
		return http.StatusUnauthorized
	case authErrors.IsForbidden(err):
		return http.StatusForbidden
	case authErrors.IsNotFound(err):
		return http.StatusNotFound
	case authErrors.IsAlreadyExists(err):
		return http.StatusConflict
	case authErrors.IsUnprocessable(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return authErrors.Detail(err)
}
