package util

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderID 以時間戳加亂數產生訂單編號，方便依時間排查
func GenerateOrderID() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102150405"), uuid.New().String()[:8])
}

// GenerateProductID 商品編號
func GenerateProductID() string {
	return fmt.Sprintf("PROD-%s", uuid.New().String())
}
