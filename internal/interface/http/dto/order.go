package dto

// CheckoutRequest 结算请求,订单内容取自当前购物车
type CheckoutRequest struct {
	CustomerName string `json:"customer_name" binding:"required,notblank,max=100" example:"张三"`
	Address      string `json:"address" binding:"required,notblank,max=500" example:"北京市朝阳区xx路1号"`
}

// SetOrderStatusRequest 管理员修改订单状态
type SetOrderStatusRequest struct {
	Status string `json:"status" binding:"required,order_status" example:"Shipped"` // Pending/Shipped/Delivered/Cancelled
}
