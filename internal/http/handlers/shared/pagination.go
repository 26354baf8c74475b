package shared

import "github.com/gin-gonic/gin"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// PaginationFromQuery 读取 ?page=&page_size=，非法值回落到第一页、每页 20 条，上限 100
func PaginationFromQuery(c *gin.Context) (int, int) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return 1, defaultPageSize
	}
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}
	return page, size
}
