package purchase

import (
	"context"
	"sort"
	"strings"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// 内存版仓储实现,用于用例层单元测试
// 设计说明:
// 1. fakeStore集中持有全部状态,并提供snapshot/restore,
//    让fakeTxManager可以模拟"失败即回滚"的事务语义 ——
//    这样原子性测试验证的是用例编排本身,而不是数据库行为
// 2. 仓储方法只实现测试路径用到的语义,保持与接口契约一致

type fakeStore struct {
	books          map[uint]*book.Book
	purchases      map[uint]*purchase.Purchase
	nextBookID     uint
	nextPurchaseID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:          make(map[uint]*book.Book),
		purchases:      make(map[uint]*purchase.Purchase),
		nextBookID:     1,
		nextPurchaseID: 1,
	}
}

func (s *fakeStore) addBook(b *book.Book) *book.Book {
	b.ID = s.nextBookID
	s.nextBookID++
	s.books[b.ID] = b
	return b
}

// snapshot 深拷贝当前状态
func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	snap.nextBookID = s.nextBookID
	snap.nextPurchaseID = s.nextPurchaseID
	for id, b := range s.books {
		copied := *b
		snap.books[id] = &copied
	}
	for id, p := range s.purchases {
		copied := *p
		copied.Items = append([]purchase.PurchaseItem(nil), p.Items...)
		snap.purchases[id] = &copied
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.books = snap.books
	s.purchases = snap.purchases
	s.nextBookID = snap.nextBookID
	s.nextPurchaseID = snap.nextPurchaseID
}

// fakeTxManager 模拟事务:回调失败时恢复快照
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// fakeBookRepo 内存图书仓储
type fakeBookRepo struct {
	store *fakeStore
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.store.addBook(b)
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := r.store.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	for _, b := range r.store.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	if _, ok := r.store.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	r.store.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	delete(r.store.books, id)
	return nil
}

func (r *fakeBookRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	_, err := r.FindByISBN(ctx, isbn)
	return err == nil, nil
}

func (r *fakeBookRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	_, ok := r.store.books[id]
	return ok, nil
}

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var result []*book.Book
	for _, b := range r.store.books {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

// LockByID 内存实现没有并发事务,直接等价于FindByID
func (r *fakeBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookRepo) UpdateStock(ctx context.Context, id uint, delta int) error {
	b, ok := r.store.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Quantity+delta < 0 {
		return book.ErrInsufficientStock
	}
	b.Quantity += delta
	return nil
}

// fakePurchaseRepo 内存订单仓储
type fakePurchaseRepo struct {
	store *fakeStore
}

func (r *fakePurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	p.ID = r.store.nextPurchaseID
	r.store.nextPurchaseID++
	for i := range p.Items {
		p.Items[i].ID = uint(i + 1)
		p.Items[i].PurchaseID = p.ID
	}
	r.store.purchases[p.ID] = p
	return nil
}

func (r *fakePurchaseRepo) FindByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	p, ok := r.store.purchases[id]
	if !ok {
		return nil, purchase.ErrPurchaseNotFound
	}
	return p, nil
}

func (r *fakePurchaseRepo) FindByOrderNo(ctx context.Context, orderNo string) (*purchase.Purchase, error) {
	for _, p := range r.store.purchases {
		if p.OrderNo == orderNo {
			return p, nil
		}
	}
	return nil, purchase.ErrPurchaseNotFound
}

func (r *fakePurchaseRepo) Update(ctx context.Context, p *purchase.Purchase) error {
	if _, ok := r.store.purchases[p.ID]; !ok {
		return purchase.ErrPurchaseNotFound
	}
	r.store.purchases[p.ID] = p
	return nil
}

func (r *fakePurchaseRepo) FindAll(ctx context.Context) ([]*purchase.Purchase, error) {
	var result []*purchase.Purchase
	for _, p := range r.store.purchases {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakePurchaseRepo) FindByStatus(ctx context.Context, status purchase.Status) ([]*purchase.Purchase, error) {
	all, _ := r.FindAll(ctx)
	var result []*purchase.Purchase
	for _, p := range all {
		if p.Status == status {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePurchaseRepo) FindByCustomerEmail(ctx context.Context, email string) ([]*purchase.Purchase, error) {
	all, _ := r.FindAll(ctx)
	var result []*purchase.Purchase
	for _, p := range all {
		if strings.EqualFold(p.CustomerEmail, email) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePurchaseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.store.purchases)), nil
}

func (r *fakePurchaseRepo) CountByStatus(ctx context.Context, status purchase.Status) (int64, error) {
	list, _ := r.FindByStatus(ctx, status)
	return int64(len(list)), nil
}

// capturingPublisher 记录发布过的事件,验证用例是否发出通知
type capturingPublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	routingKey string
	message    interface{}
}

func (p *capturingPublisher) Publish(routingKey string, message interface{}) error {
	p.events = append(p.events, publishedEvent{routingKey: routingKey, message: message})
	return nil
}

// testEnv 一套装配好的测试环境
type testEnv struct {
	store        *fakeStore
	bookRepo     *fakeBookRepo
	purchaseRepo *fakePurchaseRepo
	txManager    *fakeTxManager
	publisher    *capturingPublisher
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	return &testEnv{
		store:        store,
		bookRepo:     &fakeBookRepo{store: store},
		purchaseRepo: &fakePurchaseRepo{store: store},
		txManager:    &fakeTxManager{store: store},
		publisher:    &capturingPublisher{},
	}
}

func (e *testEnv) seedBook(isbn, title string, price int64, quantity int) *book.Book {
	b := book.NewBook(isbn, title, "测试作者", "测试出版社", 2020, "技术", price, quantity, "")
	return e.store.addBook(b)
}
