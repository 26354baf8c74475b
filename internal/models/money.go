package models

import (
	"database/sql/driver"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale 所有金额统一保留两位小数
const moneyScale = 2

// Money 金额，JSON 以定点字符串输出，数据库按 decimal 存取
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 按两位小数四舍五入
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(moneyScale)}
}

// MustMoney 解析失败直接 panic，只在种子数据和测试中使用
func MustMoney(raw string) Money {
	return NewMoneyFromDecimal(decimal.RequireFromString(raw))
}

// String 固定两位小数
func (m Money) String() string {
	return m.Decimal.StringFixed(moneyScale)
}

// MarshalJSON 输出 "12.50" 形式的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON 兼容字符串与数字两种写法
func (m *Money) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return nil
	}
	parsed, err := decimal.NewFromString(strings.Trim(raw, `"`))
	if err != nil {
		return err
	}
	*m = NewMoneyFromDecimal(parsed)
	return nil
}

// Value 写库前取整
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(moneyScale).Value()
}

// Scan NULL 读作零
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if value != nil {
		if err := d.Scan(value); err != nil {
			return err
		}
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
