package order

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 订单领域错误
var (
	ErrOrderNotFound           = apperrors.ErrOrderNotFound
	ErrInvalidStatusTransition = apperrors.ErrInvalidOrderStatus

	ErrInvalidStatus        = apperrors.New(apperrors.ErrCodeInvalidParams, "订单状态不合法")
	ErrAddressRequired      = apperrors.New(apperrors.ErrCodeInvalidParams, "收货地址不能为空")
	ErrCustomerNameRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "收货人不能为空")
)
