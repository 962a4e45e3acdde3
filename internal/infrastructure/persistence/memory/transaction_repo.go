package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

// TransactionRepository 交易仓储内存实现
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository 创建交易仓储
func NewTransactionRepository(store *Store) transaction.Repository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	return r.store.write(ctx, func(st *state) error {
		st.transactions = append(st.transactions, copyTransaction(t))
		return nil
	})
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	var found *transaction.Transaction
	err := r.store.read(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if t.ID == id {
				found = hydrate(st, t)
				return nil
			}
		}
		return transaction.ErrTransactionNotFound
	})
	return found, err
}

func (r *TransactionRepository) List(ctx context.Context, params pagination.Params) ([]*transaction.Transaction, int64, error) {
	var all []*transaction.Transaction
	err := r.store.read(ctx, func(st *state) error {
		all = make([]*transaction.Transaction, 0, len(st.transactions))
		for _, t := range st.transactions {
			all = append(all, hydrate(st, t))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	p := params.Normalize()
	return paginate(all, p.Offset(), p.Limit), int64(len(all)), nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(st *state) error {
		n = int64(len(st.transactions))
		return nil
	})
	return n, err
}

func (r *TransactionRepository) AverageTotalAmount(ctx context.Context) (float64, error) {
	var avg float64
	err := r.store.read(ctx, func(st *state) error {
		if len(st.transactions) == 0 {
			return nil
		}
		var sum int64
		for _, t := range st.transactions {
			sum += t.TotalAmount
		}
		avg = float64(sum) / float64(len(st.transactions))
		return nil
	})
	return avg, err
}

func (r *TransactionRepository) SumQuantityByBook(ctx context.Context) ([]transaction.BookQuantity, error) {
	totals := make(map[string]int64)
	err := r.store.read(ctx, func(st *state) error {
		for _, t := range st.transactions {
			for _, item := range t.Items {
				totals[item.BookID] += int64(item.Quantity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]transaction.BookQuantity, 0, len(totals))
	for id, qty := range totals {
		result = append(result, transaction.BookQuantity{BookID: id, Quantity: qty})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BookID < result[j].BookID })
	return result, nil
}

// hydrate 填充用户名与书名（含已删除的图书）
func hydrate(st *state, t *transaction.Transaction) *transaction.Transaction {
	cp := copyTransaction(t)
	if u, ok := st.users[cp.UserID]; ok {
		cp.Username = u.Username
	}
	for i := range cp.Items {
		if b, ok := st.books[cp.Items[i].BookID]; ok {
			cp.Items[i].BookTitle = b.Title
		}
	}
	return cp
}
