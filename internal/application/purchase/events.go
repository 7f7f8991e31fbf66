package purchase

import (
	"log"
)

// 订单生命周期事件路由键
// 事件通过topic交换机发布,下游(通知、报表)按purchase.*订阅
const (
	EventPurchaseCreated       = "purchase.created"
	EventPurchaseConfirmed     = "purchase.confirmed"
	EventPurchaseCancelled     = "purchase.cancelled"
	EventPurchaseStatusUpdated = "purchase.status_updated"
)

// EventPublisher 事件发布接口
// 由pkg/mq的RabbitMQ Publisher实现;MQ未启用时注入NopPublisher
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// NopPublisher 空实现(MQ未启用时使用)
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(string, interface{}) error { return nil }

// PurchaseCreatedEvent 订单创建事件
type PurchaseCreatedEvent struct {
	PurchaseID    uint   `json:"purchase_id"`
	OrderNo       string `json:"order_no"`
	CustomerEmail string `json:"customer_email"`
	TotalAmount   int64  `json:"total_amount"`
	TotalItems    int    `json:"total_items"`
}

// PurchaseStatusChangedEvent 订单状态变更事件
type PurchaseStatusChangedEvent struct {
	PurchaseID uint   `json:"purchase_id"`
	OrderNo    string `json:"order_no"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// publishEvent 发布事件(尽力而为)
// 事件发布失败只记日志,不影响已提交的业务操作 —— 订单数据以数据库为准
func publishEvent(publisher EventPublisher, routingKey string, event interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(routingKey, event); err != nil {
		log.Printf("发布事件失败: routing_key=%s, err=%v", routingKey, err)
	}
}
