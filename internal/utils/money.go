package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatPesos renders an amount as "$1,250.00 MXN".
func FormatPesos(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount)
	cents := int64(amount*100+0.5) - whole*100
	return fmt.Sprintf("%s$%s.%02d MXN", sign, formatThousand(whole), cents)
}

// ParsePesos parses "$1,250.00" or "1250" into a float amount.
func ParsePesos(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(strings.ToUpper(s), "MXN")
	replacer := strings.NewReplacer(",", "", " ", "")
	s = replacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("monto inválido")
	}
	return strconv.ParseFloat(s, 64)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
