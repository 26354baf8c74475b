package shared

import (
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString("request_id"); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, nil, err)
}

// RespondErrorWithData 返回带数据载荷的国际化错误响应。
func RespondErrorWithData(c *gin.Context, code int, key string, data interface{}, err error, args ...interface{}) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	if len(args) > 0 {
		msg = i18n.Sprintf(locale, key, args...)
	}
	if err != nil {
		log := RequestLog(c).With("code", code, "message", msg, "error", err)
		if response.IsClientError(code) {
			log.Warnw("handler_rejected")
		} else {
			log.Errorw("handler_error")
		}
	}
	response.ErrorWithData(c, code, msg, data)
}
