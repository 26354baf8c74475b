package admin

import (
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 后台接口处理器
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondServiceError(c, err, fallbackKey)
}
