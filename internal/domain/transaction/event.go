package transaction

import "time"

// RoutingKeyCreated 交易创建事件的routing key
const RoutingKeyCreated = "transaction.created"

// CreatedEvent 交易已提交
// 下游(通知、报表)订阅该事件,消息体为JSON
type CreatedEvent struct {
	TransactionID string      `json:"transactionId"`
	UserID        string      `json:"userId"`
	TotalAmount   int64       `json:"totalAmount"`
	Items         []EventItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// EventItem 事件中的明细
type EventItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// NewCreatedEvent 由已提交的交易生成事件
func NewCreatedEvent(t *Transaction) CreatedEvent {
	items := make([]EventItem, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, EventItem{BookID: it.BookID, Quantity: it.Quantity, Price: it.Price})
	}
	return CreatedEvent{
		TransactionID: t.ID,
		UserID:        t.UserID,
		TotalAmount:   t.TotalAmount,
		Items:         items,
		CreatedAt:     t.CreatedAt,
	}
}
