package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// Transaction 销售交易(聚合根)
// 设计说明:
// 1. Transaction与Items在同一个事务中一起创建,之后不再修改或删除
// 2. TotalAmount是冗余字段,创建时按下单时的价格计算
// 3. Username只在查询时填充,不参与持久化
type Transaction struct {
	ID          string
	UserID      string
	Username    string
	TotalAmount int64
	Items       []Item
	CreatedAt   time.Time
}

// Item 交易明细
// Price是成交时的单价快照,与之后图书改价无关
type Item struct {
	ID            string
	TransactionID string
	BookID        string
	BookTitle     string // 只读,查询时填充
	Quantity      int
	Price         int64
}

// Subtotal 小计
func (i Item) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// NewTransaction 由合并后的购买行与快照中的图书构建交易
// lines必须已经过MergeLines处理,books必须包含每一行的图书
// 明细顺序与lines一致(即请求中每本书首次出现的顺序)
func NewTransaction(userID string, lines []Line, books map[string]*book.Book) *Transaction {
	t := &Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     make([]Item, 0, len(lines)),
		CreatedAt: time.Now(),
	}
	for _, l := range lines {
		b := books[l.BookID]
		t.Items = append(t.Items, Item{
			ID:            uuid.NewString(),
			TransactionID: t.ID,
			BookID:        b.ID,
			BookTitle:     b.Title,
			Quantity:      l.Quantity,
			Price:         b.Price,
		})
	}
	t.TotalAmount = t.CalculateTotal()
	return t
}

// CalculateTotal 计算总金额
func (t *Transaction) CalculateTotal() int64 {
	var total int64
	for _, item := range t.Items {
		total += item.Subtotal()
	}
	return total
}
