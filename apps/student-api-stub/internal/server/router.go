package server

import (
	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/handler"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/token"
)

// SetupRouter はルーティングを設定する。
func SetupRouter(engine *gin.Engine, basePath string, h *handler.Handler, issuer *token.Issuer) {
	// ヘルスチェック
	engine.GET("/health", h.HandleHealth)

	api := engine.Group(basePath)

	// 認証不要
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.HandleLogin)
		authGroup.POST("/register", h.HandleRegister)
	}

	// 学生API v1
	v1 := api.Group("/v1", AuthMiddleware(issuer))
	{
		v1.GET("/alunos", h.HandleListStudents)
		v1.POST("/alunos", h.HandleCreateStudent)
		v1.DELETE("/alunos/:id", h.HandleDeleteStudent)
	}
}
