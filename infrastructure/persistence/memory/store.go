/*
Package memory 进程内事务存储（开发环境与测试使用）

与 SQL 存储提供相同的一致性保证:
- UnitOfWork.Execute 持有存储级互斥锁，在数据集副本上执行业务函数
- 成功时整体替换数据集（提交），失败时丢弃副本（回滚）
- 未处于事务中的仓储调用各自加锁，单次调用原子

存储中只保存不可变的 DTO 值，仓储每次返回新重建的聚合根。
*/
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"carmarket/domain/dealer"
	"carmarket/domain/favorite"
	"carmarket/domain/listing"
	"carmarket/domain/review"
	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
	"carmarket/domain/viewing"
)

type pairKey struct {
	userID    string
	listingID string
}

// OutboxRecord 已提交事务写入的领域事件
type OutboxRecord struct {
	AggregateID string
	EventType   string
	Payload     map[string]any
	OccurredOn  time.Time
}

type dataset struct {
	categories map[string]*taxonomy.Category
	makes      map[string]*taxonomy.Make
	models     map[string]*taxonomy.VehicleModel
	listings   map[string]listing.ReconstructionDTO
	reviews    map[string]review.ReconstructionDTO
	favorites  map[pairKey]favorite.Favorite
	views      map[pairKey]viewing.Entry
	dealers    map[string]dealer.ReconstructionDTO
	outbox     []OutboxRecord
}

func newDataset() *dataset {
	return &dataset{
		categories: make(map[string]*taxonomy.Category),
		makes:      make(map[string]*taxonomy.Make),
		models:     make(map[string]*taxonomy.VehicleModel),
		listings:   make(map[string]listing.ReconstructionDTO),
		reviews:    make(map[string]review.ReconstructionDTO),
		favorites:  make(map[pairKey]favorite.Favorite),
		views:      make(map[pairKey]viewing.Entry),
		dealers:    make(map[string]dealer.ReconstructionDTO),
	}
}

// clone 浅拷贝各个 map；存储的值不会被原地修改
func (d *dataset) clone() *dataset {
	return &dataset{
		categories: maps.Clone(d.categories),
		makes:      maps.Clone(d.makes),
		models:     maps.Clone(d.models),
		listings:   maps.Clone(d.listings),
		reviews:    maps.Clone(d.reviews),
		favorites:  maps.Clone(d.favorites),
		views:      maps.Clone(d.views),
		dealers:    maps.Clone(d.dealers),
		outbox:     slices.Clone(d.outbox),
	}
}

// Store 进程内数据集
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

// NewStore 创建空存储
func NewStore() *Store {
	return &Store{data: newDataset()}
}

type txKey struct{}

type memTx struct {
	data *dataset
}

func txFromContext(ctx context.Context) *memTx {
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		return tx
	}
	return nil
}

// read 在事务副本或当前数据集上执行只读操作
func (s *Store) read(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx := txFromContext(ctx); tx != nil {
		return fn(tx.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write 非事务写入直接作用于当前数据集，fn 必须先校验再修改
func (s *Store) write(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx := txFromContext(ctx); tx != nil {
		return fn(tx.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// OutboxEvents 返回已提交的事件副本
func (s *Store) OutboxEvents() []OutboxRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.outbox)
}

// paginate 对已排序的结果切片分页
func paginate[T any](items []T, p shared.Pagination) shared.Page[T] {
	total := int64(len(items))
	start := min(p.Offset(), len(items))
	end := len(items)
	if p.PerPage < end-start {
		end = start + p.PerPage
	}
	return shared.NewPage(slices.Clone(items[start:end]), p, total)
}
