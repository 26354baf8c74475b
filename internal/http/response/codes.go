package response

// 业务状态码，写入 status_code 字段，HTTP 层始终返回 200
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeUnprocessable   = 422
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

const successMessage = "success"

// IsClientError 4xx 段的业务码，日志按 warn 处理
func IsClientError(code int) bool {
	return code >= 400 && code < 500
}
