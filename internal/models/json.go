package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 任意结构的 JSON 列
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	raw, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = JSON{}
		return nil
	case []byte:
		if len(v) == 0 {
			*j = JSON{}
			return nil
		}
		return json.Unmarshal(v, j)
	case string:
		if v == "" {
			*j = JSON{}
			return nil
		}
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
