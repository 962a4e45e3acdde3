package transaction

import (
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	UserID   string // 从JWT中提取
	Username string
	Items    []transaction.Line
}

// TransactionResponse 交易详情
type TransactionResponse struct {
	ID          string         `json:"id"`
	TotalAmount int64          `json:"totalAmount"`
	User        UserSummary    `json:"user"`
	Items       []ItemResponse `json:"items"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// UserSummary 交易所属用户
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ItemResponse 交易明细
type ItemResponse struct {
	ID       string      `json:"id"`
	Book     BookSummary `json:"book"`
	Quantity int         `json:"quantity"`
	Price    int64       `json:"price"` // 成交单价(分)
	Subtotal int64       `json:"subtotal"`
}

// BookSummary 明细引用的图书
type BookSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListTransactionsResponse 分页交易列表
type ListTransactionsResponse struct {
	List []TransactionResponse
	Meta pagination.Meta
}

// StatisticsResponse 交易统计
// 没有可归类的销量时两个分类字段输出null
type StatisticsResponse struct {
	TotalTransactions int64   `json:"totalTransactions"`
	AverageAmount     float64 `json:"averageAmount"`
	MostPopularGenre  *string `json:"mostPopularGenre"`
	LeastPopularGenre *string `json:"leastPopularGenre"`
}

func toTransactionResponse(t *transaction.Transaction) TransactionResponse {
	items := make([]ItemResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = ItemResponse{
			ID:       it.ID,
			Book:     BookSummary{ID: it.BookID, Title: it.BookTitle},
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: it.Subtotal(),
		}
	}
	return TransactionResponse{
		ID:          t.ID,
		TotalAmount: t.TotalAmount,
		User:        UserSummary{ID: t.UserID, Username: t.Username},
		Items:       items,
		CreatedAt:   t.CreatedAt,
	}
}

func toStatisticsResponse(s *transaction.Statistics) *StatisticsResponse {
	return &StatisticsResponse{
		TotalTransactions: s.TotalTransactions,
		AverageAmount:     s.AverageAmount,
		MostPopularGenre:  s.MostPopularGenre,
		LeastPopularGenre: s.LeastPopularGenre,
	}
}
