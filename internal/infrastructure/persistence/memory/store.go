// Package memory 内存存储实现
// 实现与mysql包相同的仓储接口，用于单元测试和本地开发（database.driver=memory）。
// 事务语义：写事务之间串行执行，在状态副本上工作，成功后整体替换，失败则丢弃副本，
// 因此不会出现部分提交。
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/internal/domain/user"
)

type state struct {
	users        map[string]*user.User
	genres       map[string]*genre.Genre
	books        map[string]*book.Book
	transactions []*transaction.Transaction // 按写入顺序追加
}

func newState() *state {
	return &state{
		users:  make(map[string]*user.User),
		genres: make(map[string]*genre.Genre),
		books:  make(map[string]*book.Book),
	}
}

// clone 复制可变数据；交易写入后不再修改，只复制切片
func (s *state) clone() *state {
	cp := newState()
	for id, u := range s.users {
		cp.users[id] = copyUser(u)
	}
	for id, g := range s.genres {
		cp.genres[id] = copyGenre(g)
	}
	for id, b := range s.books {
		cp.books[id] = copyBook(b)
	}
	cp.transactions = append(cp.transactions, s.transactions...)
	return cp
}

type txKey struct{}

// Store 内存数据库
type Store struct {
	mu        sync.RWMutex // 保护committed
	writeMu   sync.Mutex   // 写事务串行
	committed *state
}

// NewStore 创建空的内存数据库
func NewStore() *Store {
	return &Store{committed: newState()}
}

// Transaction 在事务中执行fn
// fn返回错误时所有修改被丢弃；嵌套调用加入外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// read 读取当前可见的状态（事务内读事务副本，否则读已提交状态）
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write 修改状态，不在事务中时自动开启一个
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txKey{}).(*state))
	})
}

// =========================================
// 复制函数：仓储对外只交出副本，调用方修改实体不会影响存储
// =========================================

func copyUser(u *user.User) *user.User {
	cp := *u
	return &cp
}

func copyGenre(g *genre.Genre) *genre.Genre {
	cp := *g
	if g.DeletedAt != nil {
		t := *g.DeletedAt
		cp.DeletedAt = &t
	}
	return &cp
}

func copyBook(b *book.Book) *book.Book {
	cp := *b
	if b.DeletedAt != nil {
		t := *b.DeletedAt
		cp.DeletedAt = &t
	}
	return &cp
}

func copyTransaction(t *transaction.Transaction) *transaction.Transaction {
	cp := *t
	cp.Items = append([]transaction.Item(nil), t.Items...)
	return &cp
}

// paginate 对已排序的结果分页
func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
