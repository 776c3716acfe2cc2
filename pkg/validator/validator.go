// Package validator 在gin默认的validator/v10引擎上注册自定义校验规则
package validator

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// OrderStatuses 合法的订单状态
var OrderStatuses = []string{"Pending", "Shipped", "Delivered", "Cancelled"}

var once sync.Once

// Register 注册自定义规则，重复调用无副作用
//
//	order_status: 值必须是 OrderStatuses 之一
//	notblank:     去掉首尾空白后不能为空
func Register() error {
	var err error
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn 在指定的Validate实例上注册规则
func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("order_status", orderStatus); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", notBlank)
}

func orderStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, s := range OrderStatuses {
		if value == s {
			return true
		}
	}
	return false
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
