package purchase

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrPurchaseNotFound 订单不存在
	ErrPurchaseNotFound = apperrors.New(apperrors.ErrCodePurchaseNotFound, "订单不存在")

	// ErrInvalidPurchaseState 非法的状态转换/当前状态不允许此操作
	// 使用WithDetails携带current/requested上下文
	ErrInvalidPurchaseState = apperrors.New(apperrors.ErrCodeInvalidPurchaseState, "订单状态不允许此操作")

	// ErrUnknownStatus 无法识别的状态标识
	ErrUnknownStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的订单状态")

	// ErrEmptyItems 订单明细不能为空
	ErrEmptyItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidDiscountPercent 折扣百分比超出0-100
	ErrInvalidDiscountPercent = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣百分比必须在0-100之间")

	// ErrNegativeDiscountAmount 固定折扣金额为负
	ErrNegativeDiscountAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣金额不能为负数")
)

// NewInvalidTransitionError 构造携带current/requested上下文的状态错误
func NewInvalidTransitionError(current, requested Status) *apperrors.AppError {
	return ErrInvalidPurchaseState.WithDetails(map[string]interface{}{
		"current":   current.String(),
		"requested": requested.String(),
	})
}

// NewInvalidStateError 构造只携带current上下文的状态错误
// 用于"当前状态不允许此操作"但没有明确目标状态的场景(如应用折扣)
func NewInvalidStateError(current Status) *apperrors.AppError {
	return ErrInvalidPurchaseState.WithDetails(map[string]interface{}{
		"current": current.String(),
	})
}
