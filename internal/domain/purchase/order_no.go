package purchase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNo 生成订单号
// 订单号设计原则:
// 1. 全局唯一(毫秒时间戳+8位随机十六进制,碰撞概率可忽略)
// 2. 时间有序(便于排查问题和分库分表)
// 3. 不可预测(防止恶意遍历)
//
// 格式:ORD-{毫秒时间戳}-{8位随机HEX}
// 示例:ORD-1699248000123-3F2A9C1B
func GenerateOrderNo() string {
	ts := time.Now().UnixMilli()
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%d-%s", ts, suffix)
}
