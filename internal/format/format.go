// Package format 负责将处理结果渲染为可直接发送给用户的文本片段。
// 所有数值格式规则在各个 handler 之间保持一致。
package format

import (
	"fmt"
	"math"
	"strings"
)

// Amount 按数量级渲染数值：
//   - >= 1000 时使用千位分隔符并保留 2 位小数；
//   - [1, 1000) 区间保留 4 位小数；
//   - < 1 时最多保留 8 位小数并去除末尾的零。
func Amount(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1000:
		return withThousands(fmt.Sprintf("%.2f", v))
	case abs >= 1:
		return fmt.Sprintf("%.4f", v)
	default:
		s := fmt.Sprintf("%.8f", v)
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
		if s == "" || s == "-" {
			return "0"
		}
		return s
	}
}

// USD 渲染美元金额。
func USD(v float64) string {
	return "$" + Amount(v)
}

// Change 渲染带显式符号的 24 小时涨跌幅，例如 "+2.40%"。
func Change(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// ChangeGlyph 根据涨跌方向返回箭头表情。
func ChangeGlyph(pct float64) string {
	if pct < 0 {
		return "📉"
	}
	return "📈"
}

// ShortAddress 将钱包地址缩写为前 10 位加后 4 位，避免展示完整地址。
func ShortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:10] + "..." + addr[len(addr)-4:]
}

// withThousands 在整数部分插入千位分隔符。输入必须是 %.2f 的输出。
func withThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}

	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
