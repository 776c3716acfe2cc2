package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNo 订单号: ORD + unix秒 + 6位随机数,如 ORD1699248000123456
func GenerateOrderNo() string {
	return fmt.Sprintf("ORD%d%06d", time.Now().Unix(), rand.Intn(1000000))
}
