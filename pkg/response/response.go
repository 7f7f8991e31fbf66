package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Response 统一响应结构
// 设计说明:
// 1. Code是业务错误码(非HTTP状态码),客户端按Code判断错误类型:
//    0成功,404xx资源不存在,400xx业务规则冲突,409xx参数错误,500xx系统错误
// 2. Message是用户友好的提示信息
// 3. Details携带结构化错误上下文(如库存不足时的isbn/requested/available)
// 4. Data是业务数据,成功时返回
type Response struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
}

// Success 成功响应(Code=0表示成功)
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应(自动处理AppError)
// 用法:
//
//	result, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误细节只进日志,不外泄给客户端
	if appErr.Err != nil {
		log.Printf("请求处理失败: path=%s, code=%d, err=%v", c.FullPath(), appErr.Code, appErr.Err)
	}

	c.JSON(httpStatus(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// httpStatus 业务错误码 → HTTP状态码
// 业务码的前三位就是语义对应的HTTP状态段
func httpStatus(code int) int {
	switch {
	case code >= 50000:
		return http.StatusInternalServerError
	case code >= 40900:
		return http.StatusBadRequest // 参数错误
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40000:
		return http.StatusConflict // 业务规则冲突(库存不足、状态非法、ISBN重复)
	default:
		return http.StatusOK
	}
}

// ErrorWithCode 自定义错误码和消息(用于参数绑定失败等场景)
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(httpStatus(code), Response{
		Code:    code,
		Message: message,
	})
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
