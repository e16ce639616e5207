package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/httputil"
	"github.com/oyaguma3/student-records/pkg/logging"
	"github.com/oyaguma3/student-records/pkg/model"
	"github.com/oyaguma3/student-records/pkg/validation"
)

// ページングの既定値と上限
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// HandleListStudents はGET /v1/alunos のハンドラー。
func (h *Handler) HandleListStudents(c *gin.Context) {
	page, size, err := parsePaging(c.Query("page"), c.Query("size"))
	if err != nil {
		httputil.WriteAppError(c, err)
		return
	}

	items, total, err := h.store.ListStudents(c.Request.Context(), page, size)
	if err != nil {
		h.writeInternalError(c, "list students failed", err)
		return
	}

	c.JSON(http.StatusOK, model.NewPage(items, page, size, total))
}

// HandleCreateStudent はPOST /v1/alunos のハンドラー。
func (h *Handler) HandleCreateStudent(c *gin.Context) {
	var body model.CreateStudentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.WriteError(c, httputil.BadRequest(httputil.MsgInvalidBody))
		return
	}
	req := model.NewCreateStudentRequest(body.Nome, body.Email, body.Serie)

	if err := validation.ValidateStudent(req); err != nil {
		httputil.WriteAppError(c, err)
		return
	}

	created, err := h.store.CreateStudent(c.Request.Context(), req)
	if err != nil {
		h.writeInternalError(c, "create student failed", err)
		return
	}

	slog.Info("student created",
		logging.WithTraceID(traceID(c)),
		logging.WithEventID("STUB_STUDENT_CREATE"),
		"student_id", created.ID,
		h.fields.WithEmail(c.GetString(EmailKey)),
	)
	c.JSON(http.StatusCreated, created)
}

// HandleDeleteStudent はDELETE /v1/alunos/:id のハンドラー。
func (h *Handler) HandleDeleteStudent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.WriteError(c, httputil.BadRequest("id must be a positive integer"))
		return
	}

	err = h.store.DeleteStudent(c.Request.Context(), id)
	switch {
	case errors.Is(err, apperr.ErrStudentNotFound):
		httputil.WriteAppError(c, err)
		return
	case err != nil:
		h.writeInternalError(c, "delete student failed", err)
		return
	}

	slog.Info("student deleted",
		logging.WithTraceID(traceID(c)),
		logging.WithEventID("STUB_STUDENT_DELETE"),
		"student_id", id,
	)
	c.Status(http.StatusNoContent)
}

// parsePaging はクエリ文字列のpage/sizeを解釈する。省略時は既定値。
func parsePaging(rawPage, rawSize string) (int, int, error) {
	page, size := DefaultPage, DefaultPageSize

	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 1 {
			return 0, 0, apperr.NewValidationError("page", "must be a positive integer")
		}
		page = n
	}
	if rawSize != "" {
		n, err := strconv.Atoi(rawSize)
		if err != nil || n < 1 || n > MaxPageSize {
			return 0, 0, apperr.NewValidationError("size", "must be between 1 and "+strconv.Itoa(MaxPageSize))
		}
		size = n
	}
	return page, size, nil
}
