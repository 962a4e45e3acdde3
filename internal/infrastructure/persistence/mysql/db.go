package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	pkglogger "github.com/xiebiao/bookstore-api/pkg/logger"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志级别由database.log_level控制
// 4. TranslateError开启后，唯一索引冲突会转换为gorm.ErrDuplicatedKey
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(cfg.Database.LogLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	pkglogger.L().Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	// 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&GenreModel{},
		&BookModel{},
		&TransactionModel{},
		&TransactionItemModel{},
	)
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// =========================================
// GORM模型
// =========================================
// 这是infrastructure层的数据模型，包含GORM tag；
// domain层的实体不依赖GORM，Repository负责两者之间的转换。
// 主键统一使用char(36)的UUID，由应用生成。

// UserModel GORM用户模型
type UserModel struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	Username  string    `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// GenreModel GORM分类模型
type GenreModel struct {
	ID        string         `gorm:"primaryKey;type:char(36)"`
	Name      string         `gorm:"index;size:100;not null;comment:分类名称"`
	CreatedAt time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (GenreModel) TableName() string {
	return "genres"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储最小货币单位
// 2. condition是MySQL保留字,列名使用book_condition
// 3. (title, writer, publisher)组合索引用于重复检查
type BookModel struct {
	ID              string         `gorm:"primaryKey;type:char(36)"`
	Title           string         `gorm:"index:idx_book_identity;size:200;not null;comment:书名"`
	Writer          string         `gorm:"index:idx_book_identity;size:100;not null;comment:作者"`
	Publisher       string         `gorm:"index:idx_book_identity;size:100;not null;comment:出版社"`
	ISBN            string         `gorm:"size:20;comment:ISBN号"`
	Description     string         `gorm:"type:text;comment:图书描述"`
	PublicationYear int            `gorm:"index;comment:出版年份"`
	Condition       string         `gorm:"column:book_condition;size:20;index;comment:品相"`
	Price           int64          `gorm:"not null;comment:价格(最小货币单位)"`
	StockQuantity   int            `gorm:"not null;default:0;comment:库存数量"`
	GenreID         string         `gorm:"type:char(36);index;not null;comment:分类ID"`
	CreatedAt       time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string {
	return "books"
}

// TransactionModel GORM交易模型
// 与TransactionItemModel是一对多关系;User只用于查询时预加载用户名
type TransactionModel struct {
	ID          string                 `gorm:"primaryKey;type:char(36)"`
	UserID      string                 `gorm:"type:char(36);index;not null;comment:用户ID"`
	User        *UserModel             `gorm:"foreignKey:UserID"`
	TotalAmount int64                  `gorm:"not null;comment:交易总金额"`
	Items       []TransactionItemModel `gorm:"foreignKey:TransactionID"`
	CreatedAt   time.Time              `gorm:"index;comment:创建时间"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionItemModel GORM交易明细模型
// Price是成交时的单价快照;Seq保存明细在交易中的顺序
type TransactionItemModel struct {
	ID            string     `gorm:"primaryKey;type:char(36)"`
	TransactionID string     `gorm:"type:char(36);index;not null;comment:交易ID"`
	Seq           int        `gorm:"not null;default:0;comment:明细序号"`
	BookID        string     `gorm:"type:char(36);index;not null;comment:图书ID"`
	Book          *BookModel `gorm:"foreignKey:BookID"`
	Quantity      int        `gorm:"not null;comment:购买数量"`
	Price         int64      `gorm:"not null;comment:成交单价"`
}

func (TransactionItemModel) TableName() string {
	return "transaction_items"
}
