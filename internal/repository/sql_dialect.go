package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// isPostgres 未知方言按 sqlite 处理
func isPostgres(db *gorm.DB) bool {
	if db == nil || db.Dialector == nil {
		return false
	}
	switch strings.ToLower(db.Dialector.Name()) {
	case "postgres", "postgresql":
		return true
	}
	return false
}

// containsClause 生成多列“包含”模糊匹配，term 中的通配符按字面量处理
func containsClause(postgres bool, term string, columns ...string) (string, []interface{}) {
	op := "LIKE"
	if postgres {
		op = "ILIKE"
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	var (
		parts []string
		args  []interface{}
	)
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		parts = append(parts, column+" "+op+` ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return strings.Join(parts, " OR "), args
}
