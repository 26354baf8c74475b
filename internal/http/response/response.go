package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope 所有接口共用的外层结构，分页接口额外带 pagination
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// BuildPagination 由总数推算页数，pageSize 非正时页数为 0
func BuildPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = total / int64(pageSize)
		if total%int64(pageSize) != 0 {
			p.TotalPage++
		}
	}
	return p
}

func write(c *gin.Context, envelope Envelope) {
	c.JSON(http.StatusOK, envelope)
}

// Success 成功
func Success(c *gin.Context, data interface{}) {
	write(c, Envelope{StatusCode: CodeOK, Msg: successMessage, Data: data})
}

// SuccessWithPage 成功且带分页
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, Envelope{StatusCode: CodeOK, Msg: successMessage, Data: data, Pagination: &pagination})
}

// Error 失败，无附加数据
func Error(c *gin.Context, code int, msg string) {
	ErrorWithData(c, code, msg, nil)
}

// ErrorWithData 失败，data 携带原因码等机器可读字段，并补上 request_id 便于排查
func ErrorWithData(c *gin.Context, code int, msg string, data interface{}) {
	write(c, Envelope{StatusCode: code, Msg: msg, Data: withRequestID(c, data)})
}

func withRequestID(c *gin.Context, data interface{}) interface{} {
	var id string
	if c != nil {
		id = c.GetString("request_id")
	}
	if id == "" {
		return data
	}
	if data == nil {
		return gin.H{"request_id": id}
	}
	h, ok := data.(gin.H)
	if !ok {
		return gin.H{"request_id": id, "data": data}
	}
	if _, exists := h["request_id"]; !exists {
		h["request_id"] = id
	}
	return h
}
