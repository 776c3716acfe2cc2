package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookshelf/internal/application/cart"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 所有操作都以当前登录用户为准,不接受客户端传入的用户ID
type CartHandler struct {
	getCartUseCase        *appcart.GetCartUseCase
	addToCartUseCase      *appcart.AddToCartUseCase
	removeFromCartUseCase *appcart.RemoveFromCartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	getCartUseCase *appcart.GetCartUseCase,
	addToCartUseCase *appcart.AddToCartUseCase,
	removeFromCartUseCase *appcart.RemoveFromCartUseCase,
) *CartHandler {
	return &CartHandler{
		getCartUseCase:        getCartUseCase,
		addToCartUseCase:      addToCartUseCase,
		removeFromCartUseCase: removeFromCartUseCase,
	}
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.GetCartResponse}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.getCartUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  预占一本库存;已在购物车中则数量+1
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddToCartRequest true "图书"
// @Success      200 {object} response.Response{data=appcart.AddToCartResponse}
// @Failure      200 {object} response.Response "40001 库存不足"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.addToCartUseCase.Execute(c.Request.Context(), appcart.AddToCartRequest{
		UserID: middleware.MustGetUserID(c),
		BookID: req.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveItem 移出购物车
// @Summary      移出购物车
// @Description  整行移除并归还全部预占库存
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "购物车行ID"
// @Success      200 {object} response.Response{data=appcart.RemoveFromCartResponse}
// @Failure      200 {object} response.Response "40404 购物车中没有该商品"
// @Router       /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lineID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.removeFromCartUseCase.Execute(c.Request.Context(), appcart.RemoveFromCartRequest{
		UserID: middleware.MustGetUserID(c),
		LineID: lineID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
