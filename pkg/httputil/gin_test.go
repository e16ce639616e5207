package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/pkg/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, BadRequest("nome is required"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != ContentType {
		t.Errorf("Content-Type = %q, want %q", ct, ContentType)
	}

	var parsed ProblemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if parsed.Message != "nome is required" {
		t.Errorf("Message = %q, want %q", parsed.Message, "nome is required")
	}
}

func TestAbortWithErrorInMiddleware(t *testing.T) {
	router := gin.New()

	// Authorizationヘッダーが無ければ401で中断する
	router.Use(func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			AbortWithError(c, Unauthorized("missing bearer token"))
			return
		}
		c.Next()
	})
	router.GET("/v1/alunos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	t.Run("without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/alunos", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status code = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		var parsed ProblemDetail
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		if parsed.Title != "Unauthorized" {
			t.Errorf("Title = %q, want %q", parsed.Title, "Unauthorized")
		}
	})

	t.Run("with token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/alunos", nil)
		req.Header.Set("Authorization", "Bearer abc")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"validation", apperr.NewValidationError("email", "is required"), http.StatusBadRequest, "email is required"},
		{"invalid request", fmt.Errorf("%w: bad json", apperr.ErrInvalidRequest), http.StatusBadRequest, MsgInvalidBody},
		{"student not found", fmt.Errorf("delete 7: %w", apperr.ErrStudentNotFound), http.StatusNotFound, MsgStudentNotFound},
		{"email taken", apperr.ErrEmailTaken, http.StatusConflict, MsgEmailTaken},
		{"token", apperr.ErrTokenInvalid, http.StatusUnauthorized, "Invalid or expired token"},
		{"storage", fmt.Errorf("%w: disk I/O", apperr.ErrStorage), http.StatusInternalServerError, MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromError(tt.err)
			if p.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", p.Status, tt.wantStatus)
			}
			if p.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", p.Message, tt.wantMessage)
			}
		})
	}
}
