package transaction

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	"github.com/xiebiao/bookstore-api/internal/domain/transaction"
	"github.com/xiebiao/bookstore-api/internal/domain/user"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/memory"
)

type fixture struct {
	store  *memory.Store
	books  book.Repository
	genres genre.Repository
	users  user.Repository
	txs    transaction.Repository
	events *recordingPublisher
	cache  *fakeCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:  store,
		books:  memory.NewBookRepository(store),
		genres: memory.NewGenreRepository(store),
		users:  memory.NewUserRepository(store),
		txs:    memory.NewTransactionRepository(store),
		events: &recordingPublisher{},
		cache:  &fakeCache{},
	}
}

func (f *fixture) createUseCase() *CreateTransactionUseCase {
	return NewCreateTransactionUseCase(f.store, f.books, f.txs, f.cache, f.events, zap.NewNop())
}

func (f *fixture) statisticsUseCase() *GetStatisticsUseCase {
	return NewGetStatisticsUseCase(f.txs, f.books, f.genres, f.cache, zap.NewNop())
}

// genre 使用固定ID,便于断言遍历顺序
func (f *fixture) genre(t *testing.T, id, name string) *genre.Genre {
	t.Helper()
	g := genre.NewGenre(name)
	g.ID = id
	require.NoError(t, f.genres.Create(context.Background(), g))
	return g
}

func (f *fixture) book(t *testing.T, id, genreID string, price int64, stock int) *book.Book {
	t.Helper()
	b := book.NewBook(book.Details{
		Title:           "书-" + id,
		Writer:          "作者",
		Publisher:       "出版社-" + id,
		PublicationYear: 2020,
		Price:           price,
		StockQuantity:   stock,
		GenreID:         genreID,
	})
	b.ID = id
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *fixture) user(t *testing.T, username string) *user.User {
	t.Helper()
	u := user.NewUser(username, username+"@example.com", "hash")
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	bs, err := f.books.FindByIDs(context.Background(), []string{id}, false)
	require.NoError(t, err)
	require.Len(t, bs, 1)
	return bs[0].StockQuantity
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	n, err := f.txs.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (f *fixture) buy(t *testing.T, userID string, lines ...transaction.Line) *TransactionResponse {
	t.Helper()
	resp, err := f.createUseCase().Execute(context.Background(), CreateTransactionRequest{
		UserID: userID,
		Items:  lines,
	})
	require.NoError(t, err)
	return resp
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*transaction.Transaction
	err       error
}

func (p *recordingPublisher) PublishTransactionCreated(_ context.Context, t *transaction.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, t)
	return p.err
}

type fakeCache struct {
	mu            sync.Mutex
	stats         *transaction.Statistics
	version       int64
	getErr        error
	sets          int
	staleSets     int
	invalidations int
}

func (c *fakeCache) Get(context.Context) (*transaction.Statistics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats, c.getErr
}

func (c *fakeCache) Version(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version, nil
}

func (c *fakeCache) Set(_ context.Context, s *transaction.Statistics, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.version {
		c.staleSets++
		return nil
	}
	c.sets++
	c.stats = s
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.version++
	c.stats = nil
	return nil
}
