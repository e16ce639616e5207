package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/pkg/logging"
)

// ヘルスチェックの状態
const (
	healthOK          = "ok"
	healthUnavailable = "unavailable"
)

// healthResponse はGET /health の応答。storageは使用中の保存先。
type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// HandleHealth はGET /health のハンドラー。
// 保存先に到達できなければ503を返す。
func (h *Handler) HandleHealth(c *gin.Context) {
	resp := healthResponse{Status: healthOK, Storage: h.store.Backend()}

	if err := h.store.Ping(c.Request.Context()); err != nil {
		slog.Warn("storage ping failed",
			logging.WithTraceID(traceID(c)),
			logging.WithEventID("STUB_HEALTH_ERR"),
			logging.WithError(err),
		)
		resp.Status = healthUnavailable
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
