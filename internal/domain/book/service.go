package book

import (
	"context"
	"regexp"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// CreateBook 创建图书(上架)
	// 业务规则:
	// - ISBN格式必须合法(10位或13位数字)
	// - 价格必须>=0
	// - 库存必须>=0
	// - ISBN不能重复
	CreateBook(ctx context.Context, isbn, title, author, publisher string, publicationYear int, genre string, price int64, quantity int, description string) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// UpdateBook 更新图书信息(部分更新,空值跳过;价格<0表示不更新)
	UpdateBook(ctx context.Context, id uint, title, author, publisher, genre, description string, publicationYear int, price int64) (*Book, error)

	// DeleteBook 删除图书
	// 已有订单保留历史快照,不受删除影响
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 条件查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// UpdateStock 设置库存绝对值(盘点/修正)
	// 业务规则:库存不能为负数
	UpdateStock(ctx context.Context, id uint, quantity int) (*Book, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, isbn, title, author, publisher string, publicationYear int, genre string, price int64, quantity int, description string) (*Book, error) {
	// 1. ISBN格式校验
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}

	// 2. 价格与库存校验
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrInvalidStock
	}

	// 3. ISBN唯一性校验
	exists, err := s.repo.ExistsByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrISBNDuplicate
	}

	// 4. 创建实体并持久化
	b := NewBook(isbn, title, author, publisher, publicationYear, genre, price, quantity, description)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	return s.repo.FindByISBN(ctx, isbn)
}

// UpdateBook 更新图书信息
func (s *service) UpdateBook(ctx context.Context, id uint, title, author, publisher, genre, description string, publicationYear int, price int64) (*Book, error) {
	// 1. 查询图书
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 更新信息(部分更新)
	b.UpdateInfo(title, author, publisher, genre, description, publicationYear)
	if price >= 0 {
		if err := b.UpdatePrice(price); err != nil {
			return nil, err
		}
	}

	// 3. 持久化
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBookNotFound
	}

	return s.repo.Delete(ctx, id)
}

// ListBooks 条件查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// UpdateStock 设置库存绝对值
func (s *service) UpdateStock(ctx context.Context, id uint, quantity int) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.SetQuantity(quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// isValidISBN 校验ISBN格式
// 支持:
// - ISBN-10: 10位数字
// - ISBN-13: 13位数字,如9787115428028
// 简化实现:去除分隔符后只检查位数(生产环境应校验校验位)
func isValidISBN(isbn string) bool {
	re := regexp.MustCompile(`[^0-9Xx]`)
	cleanISBN := re.ReplaceAllString(isbn, "")

	length := len(cleanISBN)
	return length == 10 || length == 13
}
