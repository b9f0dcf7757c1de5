package shared

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errMalformedPrice = errors.New("malformed price")

// Price 值对象 - 以最小货币单位（分）存储的非负金额
type Price struct {
	cents int64
}

// NewPrice 从最小货币单位创建 Price
func NewPrice(cents int64) Price {
	return Price{cents: cents}
}

// ParsePrice 解析十进制金额字符串，最多两位小数（"15000", "15000.5", "15000.50"）
func ParsePrice(raw string) (Price, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Price{}, errMalformedPrice
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(whole) || (hasFrac && (!isDigits(frac) || len(frac) > 2)) {
		return Price{}, errMalformedPrice
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Price{}, errMalformedPrice
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Price{}, errMalformedPrice
		}
	}
	if units > (1<<62)/100 {
		return Price{}, errMalformedPrice
	}

	return Price{cents: units*100 + cents}, nil
}

// isDigits 非空且只含 ASCII 数字；strconv 会接受正负号
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Cents 返回最小货币单位金额
func (p Price) Cents() int64 { return p.cents }

// IsPositive 金额是否大于零
func (p Price) IsPositive() bool { return p.cents > 0 }

// String 以两位小数的十进制形式输出
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", p.cents/100, p.cents%100)
}

// MarshalJSON 输出为 JSON 数字，避免浮点精度丢失
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON 接受 JSON 数字或字符串
func (p *Price) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePrice(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) Equals(other Price) bool {
	return p.cents == other.cents
}
