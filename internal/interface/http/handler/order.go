package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshelf/internal/application/order"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	checkoutUseCase   *apporder.CheckoutUseCase
	listOrdersUseCase *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(checkoutUseCase *apporder.CheckoutUseCase, listOrdersUseCase *apporder.ListOrdersUseCase) *OrderHandler {
	return &OrderHandler{
		checkoutUseCase:   checkoutUseCase,
		listOrdersUseCase: listOrdersUseCase,
	}
}

// Checkout 结算
// @Summary      结算购物车
// @Description  以当前购物车生成订单并清空购物车,库存在加入购物车时已扣减
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "收货信息"
// @Success      200 {object} response.Response{data=apporder.OrderInfo}
// @Failure      200 {object} response.Response "40006 购物车为空"
// @Router       /api/v1/orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.checkoutUseCase.Execute(c.Request.Context(), apporder.CheckoutRequest{
		UserID:       middleware.MustGetUserID(c),
		CustomerName: req.CustomerName,
		Address:      req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]apporder.OrderInfo}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
