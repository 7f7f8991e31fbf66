// Package discount 折扣码引擎
//
// 设计说明:
// 1. 折扣表是一个可注入的配置结构(code → 规则),由服务装配时传入,
//    而不是进程级的可变全局状态 —— 便于测试时替换折扣集合
// 2. 折扣码在查表前统一归一化(去首尾空格+转大写),应用时记录的也是
//    归一化后的码
// 3. 规则只有两种:按小计百分比、固定金额;金额单位统一为"分"
package discount

import (
	"strings"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Kind 折扣规则类型
type Kind int

const (
	// KindPercentage 百分比折扣(Value为0-100的百分数)
	KindPercentage Kind = iota + 1
	// KindFixed 固定金额折扣(Value为金额,单位:分)
	KindFixed
)

// String 实现Stringer接口(方便日志输出)
func (k Kind) String() string {
	switch k {
	case KindPercentage:
		return "PERCENTAGE"
	case KindFixed:
		return "FIXED"
	default:
		return "UNKNOWN"
	}
}

// Rule 折扣规则
type Rule struct {
	Kind  Kind  // 规则类型
	Value int64 // 百分数(0-100)或金额(分)
}

// Table 折扣码表(归一化折扣码 → 规则)
type Table map[string]Rule

// ErrInvalidDiscountCode 折扣码无效(不在折扣表中)
var ErrInvalidDiscountCode = apperrors.New(apperrors.ErrCodeInvalidDiscountCode, "折扣码无效")

// Normalize 归一化折扣码:去首尾空格并转大写
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup 查找折扣规则
// 返回归一化后的折扣码与对应规则;查不到返回ErrInvalidDiscountCode
func (t Table) Lookup(code string) (string, Rule, error) {
	normalized := Normalize(code)
	rule, ok := t[normalized]
	if !ok {
		return "", Rule{}, ErrInvalidDiscountCode.WithDetails(map[string]interface{}{
			"code": code,
		})
	}
	return normalized, rule, nil
}

// DefaultTable 内置折扣表
// 生产环境应从配置或数据库加载,这里提供默认集合
func DefaultTable() Table {
	return Table{
		"SAVE10":   {Kind: KindPercentage, Value: 10},
		"SAVE20":   {Kind: KindPercentage, Value: 20},
		"WELCOME":  {Kind: KindPercentage, Value: 15},
		"BOOKWORM": {Kind: KindPercentage, Value: 25},
		"FLAT5":    {Kind: KindFixed, Value: 500},
		"FLAT10":   {Kind: KindFixed, Value: 1000},
	}
}
