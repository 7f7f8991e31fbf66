package purchase

// Status 订单状态
// 设计说明:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态值1-7递增,便于理解流转方向
// 3. String()返回的大写标识同时用于API和日志,保证对外稳定
type Status int

const (
	StatusPending    Status = 1 // 待确认
	StatusConfirmed  Status = 2 // 已确认
	StatusProcessing Status = 3 // 处理中
	StatusShipped    Status = 4 // 已发货
	StatusDelivered  Status = 5 // 已送达
	StatusCancelled  Status = 6 // 已取消(终态)
	StatusRefunded   Status = 7 // 已退款(终态)
)

// String 实现Stringer接口,返回对外稳定的状态标识
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusProcessing:
		return "PROCESSING"
	case StatusShipped:
		return "SHIPPED"
	case StatusDelivered:
		return "DELIVERED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusRefunded:
		return "REFUNDED"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus 解析状态标识("PENDING"等,忽略大小写由调用方处理)
// 无法识别时返回ErrUnknownStatus
func ParseStatus(s string) (Status, error) {
	switch s {
	case "PENDING":
		return StatusPending, nil
	case "CONFIRMED":
		return StatusConfirmed, nil
	case "PROCESSING":
		return StatusProcessing, nil
	case "SHIPPED":
		return StatusShipped, nil
	case "DELIVERED":
		return StatusDelivered, nil
	case "CANCELLED":
		return StatusCancelled, nil
	case "REFUNDED":
		return StatusRefunded, nil
	default:
		return 0, ErrUnknownStatus
	}
}

// transitions 合法的状态转换表
// 状态机规则:
//
//	PENDING     → CONFIRMED | CANCELLED
//	CONFIRMED   → PROCESSING | CANCELLED
//	PROCESSING  → SHIPPED | CANCELLED
//	SHIPPED     → DELIVERED
//	DELIVERED   → REFUNDED
//	CANCELLED   → (终态)
//	REFUNDED    → (终态)
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// CanTransitionTo 检查是否可以转换到目标状态
// 防止非法状态跳转,例如不能从"已发货"回到"待确认"
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := transitions[s]
	if !exists {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// IsTerminal 判断是否为终态(无任何后续转换)
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
