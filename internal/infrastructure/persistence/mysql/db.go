package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 3. 开发环境开启SQL日志,生产环境关闭
// 4. 自动迁移表结构(AutoMigrate)
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构(开发环境)
	// 注意:生产环境应使用版本化的迁移脚本,不要依赖AutoMigrate
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段,不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&PurchaseModel{},
		&PurchaseItemModel{},
	)
}

// BookModel GORM图书模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag;
//    domain/book/entity.go是领域实体,不依赖GORM,Repository负责转换
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. ISBN有唯一索引,防止重复
// 4. 图书软删除:历史订单保留快照,删除只是下架
type BookModel struct {
	ID              uint           `gorm:"primaryKey"`
	ISBN            string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title           string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Author          string         `gorm:"index:idx_search;size:100;not null;comment:作者"` // 搜索索引
	Publisher       string         `gorm:"size:100;comment:出版社"`
	PublicationYear int            `gorm:"comment:出版年份"`
	Genre           string         `gorm:"index;size:50;comment:分类"`
	Price           int64          `gorm:"index:idx_list;not null;comment:价格(分)"` // 排序索引
	Quantity        int            `gorm:"default:0;comment:库存数量"`
	Description     string         `gorm:"type:text;comment:图书描述"`
	CreatedAt       time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// PurchaseModel GORM订单模型
// 设计说明:
// 1. 与PurchaseItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. Status使用int存储(节省空间,便于索引)
// 4. 订单不做软删除:取消/退款是业务终态,记录永久保留
type PurchaseModel struct {
	ID              uint                `gorm:"primaryKey"`
	OrderNo         string              `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	CustomerName    string              `gorm:"size:100;not null;comment:客户姓名"`
	CustomerEmail   string              `gorm:"index;size:100;not null;comment:客户邮箱"`
	ShippingAddress string              `gorm:"size:500;comment:收货地址"`
	Subtotal        int64               `gorm:"not null;comment:小计(分)"`
	DiscountAmount  int64               `gorm:"default:0;comment:折扣金额(分)"`
	DiscountCode    string              `gorm:"size:32;comment:折扣码"`
	TotalAmount     int64               `gorm:"not null;comment:实付金额(分)"`
	TotalItems      int                 `gorm:"not null;comment:商品总件数"`
	Status          int                 `gorm:"index;type:tinyint;default:1;comment:订单状态(1待处理2已确认3处理中4已发货5已送达6已取消7已退款)"`
	PurchaseDate    time.Time           `gorm:"index;comment:下单时间"`
	Items           []PurchaseItemModel `gorm:"foreignKey:PurchaseID"` // 一对多关联
	CreatedAt       time.Time           `gorm:"comment:创建时间"`
	UpdatedAt       time.Time           `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PurchaseModel) TableName() string {
	return "purchases"
}

// PurchaseItemModel GORM订单明细模型
// 设计说明:
// 1. 记录下单时的书名/作者/ISBN/单价快照,图书改价删除不影响历史订单
// 2. PurchaseID外键关联purchases表
type PurchaseItemModel struct {
	ID         uint   `gorm:"primaryKey"`
	PurchaseID uint   `gorm:"index;not null;comment:订单ID"`
	BookID     uint   `gorm:"index;not null;comment:图书ID"`
	BookTitle  string `gorm:"size:200;not null;comment:快照-书名"`
	BookAuthor string `gorm:"size:100;comment:快照-作者"`
	BookISBN   string `gorm:"size:20;comment:快照-ISBN"`
	Quantity   int    `gorm:"not null;comment:购买数量"`
	UnitPrice  int64  `gorm:"not null;comment:快照-下单时单价(分)"`
	Subtotal   int64  `gorm:"not null;comment:明细小计(分)"`
}

// TableName 指定表名
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}
