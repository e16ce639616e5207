package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/storage"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/token"
	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/httputil"
	"github.com/oyaguma3/student-records/pkg/logging"
	"github.com/oyaguma3/student-records/pkg/model"
	"github.com/oyaguma3/student-records/pkg/validation"
)

const msgInvalidCredentials = "Invalid email or password"

// registerResponse は利用者登録のレスポンス
type registerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleLogin はPOST /auth/login のハンドラー。
func (h *Handler) HandleLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, httputil.BadRequest(httputil.MsgInvalidBody))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateLogin(req); err != nil {
		httputil.WriteAppError(c, err)
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		h.rejectLogin(c, req.Email, "unknown user")
		return
	case err != nil:
		h.writeInternalError(c, "get user failed", err)
		return
	}

	if !token.CheckPassword(req.Password, user.PasswordHash) {
		h.rejectLogin(c, req.Email, "password mismatch")
		return
	}

	signed, err := h.issuer.Issue(user.Email)
	if err != nil {
		h.writeInternalError(c, "issue token failed", err)
		return
	}

	slog.Info("login succeeded",
		logging.WithTraceID(traceID(c)),
		logging.WithEventID("STUB_LOGIN_OK"),
		h.fields.WithEmail(user.Email),
	)
	c.JSON(http.StatusOK, model.LoginResponse{Token: signed, Email: user.Email})
}

func (h *Handler) rejectLogin(c *gin.Context, email, reason string) {
	slog.Warn("login rejected",
		logging.WithTraceID(traceID(c)),
		logging.WithEventID("STUB_LOGIN_REJECT"),
		h.fields.WithEmail(email),
		"reason", reason,
	)
	httputil.WriteError(c, httputil.Unauthorized(msgInvalidCredentials))
}

// HandleRegister はPOST /auth/register のハンドラー。
func (h *Handler) HandleRegister(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, httputil.BadRequest(httputil.MsgInvalidBody))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateRegister(req); err != nil {
		httputil.WriteAppError(c, err)
		return
	}

	hashed, err := token.HashPassword(req.Password)
	if err != nil {
		h.writeInternalError(c, "hash password failed", err)
		return
	}

	err = h.store.CreateUser(c.Request.Context(), storage.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
	})
	switch {
	case errors.Is(err, apperr.ErrEmailTaken):
		httputil.WriteAppError(c, err)
		return
	case err != nil:
		h.writeInternalError(c, "create user failed", err)
		return
	}

	slog.Info("user registered",
		logging.WithTraceID(traceID(c)),
		logging.WithEventID("STUB_REGISTER_OK"),
		h.fields.WithEmail(req.Email),
	)
	c.JSON(http.StatusCreated, registerResponse{Name: req.Name, Email: req.Email})
}

// writeInternalError は内部エラーをログに残し500で返す。
func (h *Handler) writeInternalError(c *gin.Context, msg string, err error) {
	slog.Error(msg,
		logging.WithTraceID(traceID(c)),
		logging.WithEventID("STUB_ERR"),
		logging.WithError(err),
	)
	httputil.WriteError(c, httputil.InternalServerError(httputil.MsgUnexpected))
}
