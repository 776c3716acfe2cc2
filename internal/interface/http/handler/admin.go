package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshelf/internal/application/order"
	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// AdminHandler 后台管理,路由组已挂RequireAdmin
type AdminHandler struct {
	listAllOrdersUseCase *apporder.ListAllOrdersUseCase
	setStatusUseCase     *apporder.SetStatusUseCase
	listUsersUseCase     *appuser.ListUsersUseCase
	deleteUserUseCase    *appuser.DeleteUserUseCase
}

// NewAdminHandler 创建后台处理器
func NewAdminHandler(
	listAllOrdersUseCase *apporder.ListAllOrdersUseCase,
	setStatusUseCase *apporder.SetStatusUseCase,
	listUsersUseCase *appuser.ListUsersUseCase,
	deleteUserUseCase *appuser.DeleteUserUseCase,
) *AdminHandler {
	return &AdminHandler{
		listAllOrdersUseCase: listAllOrdersUseCase,
		setStatusUseCase:     setStatusUseCase,
		listUsersUseCase:     listUsersUseCase,
		deleteUserUseCase:    deleteUserUseCase,
	}
}

// ListAllOrders 全部订单
// @Summary      全部订单
// @Description  返回所有订单及累计金额
// @Tags         后台
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=apporder.ListAllOrdersResponse}
// @Router       /api/v1/admin/orders [get]
func (h *AdminHandler) ListAllOrders(c *gin.Context) {
	result, err := h.listAllOrdersUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetOrderStatus 修改订单状态
// @Summary      修改订单状态
// @Description  Delivered、Cancelled为终态;取消时归还库存
// @Tags         后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                        true "订单ID"
// @Param        request body dto.SetOrderStatusRequest  true "状态"
// @Success      200 {object} response.Response{data=apporder.OrderInfo}
// @Failure      200 {object} response.Response "40002 订单状态不允许此操作"
// @Router       /api/v1/admin/orders/{id}/status [put]
func (h *AdminHandler) SetOrderStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.setStatusUseCase.Execute(c.Request.Context(), apporder.SetStatusRequest{
		OrderID: id,
		Status:  req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListUsers 用户列表
// @Summary      用户列表
// @Tags         后台
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appuser.UserInfo}
// @Router       /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	result, err := h.listUsersUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteUser 删除用户
// @Summary      删除用户
// @Description  归还其购物车占用的库存,历史订单保留
// @Tags         后台
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	err = h.deleteUserUseCase.Execute(c.Request.Context(), appuser.DeleteUserRequest{
		OperatorID: middleware.MustGetUserID(c),
		UserID:     id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}
