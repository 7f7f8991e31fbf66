package handler

import (
	"github.com/gin-gonic/gin"

	apppurchase "github.com/xiebiao/bookshop/internal/application/purchase"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// PurchaseHandler 订单HTTP处理器
type PurchaseHandler struct {
	createPurchaseUseCase  *apppurchase.CreatePurchaseUseCase
	confirmPurchaseUseCase *apppurchase.ConfirmPurchaseUseCase
	cancelPurchaseUseCase  *apppurchase.CancelPurchaseUseCase
	updateStatusUseCase    *apppurchase.UpdateStatusUseCase
	applyDiscountUseCase   *apppurchase.ApplyDiscountUseCase
	queryPurchaseUseCase   *apppurchase.QueryPurchaseUseCase
	statisticsUseCase      *apppurchase.StatisticsUseCase
}

// NewPurchaseHandler 创建订单处理器
func NewPurchaseHandler(
	createPurchaseUseCase *apppurchase.CreatePurchaseUseCase,
	confirmPurchaseUseCase *apppurchase.ConfirmPurchaseUseCase,
	cancelPurchaseUseCase *apppurchase.CancelPurchaseUseCase,
	updateStatusUseCase *apppurchase.UpdateStatusUseCase,
	applyDiscountUseCase *apppurchase.ApplyDiscountUseCase,
	queryPurchaseUseCase *apppurchase.QueryPurchaseUseCase,
	statisticsUseCase *apppurchase.StatisticsUseCase,
) *PurchaseHandler {
	return &PurchaseHandler{
		createPurchaseUseCase:  createPurchaseUseCase,
		confirmPurchaseUseCase: confirmPurchaseUseCase,
		cancelPurchaseUseCase:  cancelPurchaseUseCase,
		updateStatusUseCase:    updateStatusUseCase,
		applyDiscountUseCase:   applyDiscountUseCase,
		queryPurchaseUseCase:   queryPurchaseUseCase,
		statisticsUseCase:      statisticsUseCase,
	}
}

// CreatePurchase 创建订单
// @Summary      创建订单
// @Description  校验库存并锁定扣减,支持下单时附带折扣码
// @Tags         订单
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePurchaseRequest true "订单信息"
// @Success      201 {object} response.Response{data=apppurchase.PurchaseResult}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "库存不足/折扣码无效"
// @Router       /api/v1/purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例(库存校验、扣减、折扣计算在事务内完成)
	result, err := h.createPurchaseUseCase.Execute(c.Request.Context(), req.ToApplication())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetPurchase 查询订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apppurchase.PurchaseResult}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.queryPurchaseUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetPurchaseByOrderNo 按订单号查询
// @Summary      按订单号查询订单
// @Tags         订单
// @Produce      json
// @Param        orderNo path string true "订单号"
// @Success      200 {object} response.Response{data=apppurchase.PurchaseResult}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/purchases/order/{orderNo} [get]
func (h *PurchaseHandler) GetPurchaseByOrderNo(c *gin.Context) {
	orderNo := c.Param("orderNo")
	if orderNo == "" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单号不能为空")
		return
	}

	result, err := h.queryPurchaseUseCase.GetByOrderNo(c.Request.Context(), orderNo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListPurchases 订单列表
// @Summary      订单列表
// @Description  可按状态或客户邮箱过滤,均未指定时返回全部订单
// @Tags         订单
// @Produce      json
// @Param        status query string false "订单状态(PENDING/CONFIRMED/...)"
// @Param        email query string false "客户邮箱"
// @Success      200 {object} response.Response{data=[]apppurchase.PurchaseResult}
// @Router       /api/v1/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		results []*apppurchase.PurchaseResult
		err     error
	)
	switch {
	case c.Query("status") != "":
		results, err = h.queryPurchaseUseCase.ListByStatus(ctx, c.Query("status"))
	case c.Query("email") != "":
		results, err = h.queryPurchaseUseCase.ListByCustomerEmail(ctx, c.Query("email"))
	default:
		results, err = h.queryPurchaseUseCase.ListAll(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, results)
}

// ConfirmPurchase 确认订单
// @Summary      确认订单
// @Description  仅PENDING状态的订单可确认
// @Tags         订单
// @Produce      json
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apppurchase.PurchaseResult}
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "状态不允许确认"
// @Router       /api/v1/purchases/{id}/confirm [post]
func (h *PurchaseHandler) ConfirmPurchase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.confirmPurchaseUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelPurchase 取消订单
// @Summary      取消订单
// @Description  取消订单并原路归还库存,已发货订单不可取消
// @Tags         订单
// @Produce      json
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apppurchase.PurchaseResult}
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "状态不允许取消"
// @Router       /api/v1/purchases/{id}/cancel [post]
func (h *PurchaseHandler) CancelPurchase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.cancelPurchaseUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdatePurchaseStatus 订单状态流转
// @Summary      订单状态流转
// @Description  按状态机推进订单状态,目标为CANCELLED时等价于取消接口(含库存归还)
// @Tags         订单
// @Accept       json
// @Produce      json
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apppurchase.PurchaseResult}
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "非法状态流转"
// @Router       /api/v1/purchases/{id}/status [put]
func (h *PurchaseHandler) UpdatePurchaseStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateStatusUseCase.Execute(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ApplyDiscount 应用折扣码
// @Summary      应用折扣码
// @Description  对PENDING订单追加或替换折扣码,重新计算应付金额
// @Tags         订单
// @Accept       json
// @Produce      json
// @Param        id path int true "订单ID"
// @Param        request body dto.ApplyDiscountRequest true "折扣码"
// @Success      200 {object} response.Response{data=apppurchase.PurchaseResult}
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "折扣码无效/状态不允许"
// @Router       /api/v1/purchases/{id}/discount [post]
func (h *PurchaseHandler) ApplyDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.applyDiscountUseCase.Execute(c.Request.Context(), id, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetStatistics 订单统计
// @Summary      订单统计
// @Description  订单总数、各状态数量、总营收(不含已取消/已退款)
// @Tags         订单
// @Produce      json
// @Success      200 {object} response.Response{data=apppurchase.StatisticsResult}
// @Router       /api/v1/purchases/statistics [get]
func (h *PurchaseHandler) GetStatistics(c *gin.Context) {
	result, err := h.statisticsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
