package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxPageSize = 100

// first 取第一条记录，未找到时返回 (nil, nil)，由 service 层决定是否算错误
func first[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	err := query.First(&row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// applyPagination pageSize 非正时不分页，超过上限按上限截断
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	pageSize = min(pageSize, maxPageSize)
	page = max(page, 1)
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// forUpdate 需要时追加 SELECT ... FOR UPDATE，SQLite 方言会忽略
func forUpdate(query *gorm.DB, lock bool) *gorm.DB {
	if !lock {
		return query
	}
	return query.Clauses(clause.Locking{Strength: "UPDATE"})
}
