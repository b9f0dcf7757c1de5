// Package stats 站点级统计汇总（landing 页计数、分类分布）
package stats

import (
	"context"
	"math"
)

// DefaultSatisfactionRate 没有任何已审核评价时的满意度
const DefaultSatisfactionRate = 95

// LandingStats 首页统计快照
type LandingStats struct {
	TotalListings    int64 `json:"total_listings"`
	TotalUsers       int64 `json:"total_users"`
	CompletedDeals   int64 `json:"completed_deals"`
	TotalDealers     int64 `json:"total_dealers"`
	SatisfactionRate int   `json:"satisfaction_rate"`
}

// CategoryCount 分类下的信息数量（包含数量为 0 的分类）
type CategoryCount struct {
	CategoryID    string `json:"category_id"`
	Name          string `json:"name"`
	ListingsCount int64  `json:"listings_count"`
}

// Reader 汇总查询端口，由存储层实现
type Reader interface {
	CountListings(ctx context.Context) (int64, error)
	CountSold(ctx context.Context) (int64, error)
	CountDealers(ctx context.Context) (int64, error)

	// CountDistinctUsers 发布过信息、评价、收藏或经销商档案的不同用户数
	// 用户账户由外部认证服务管理，这里只统计本服务可见的用户
	CountDistinctUsers(ctx context.Context) (int64, error)

	// AverageVerifiedRating 全站已审核评价的平均分与数量
	AverageVerifiedRating(ctx context.Context) (avg float64, count int64, err error)

	// CountByCategories 按分类名称排序
	CountByCategories(ctx context.Context) ([]CategoryCount, error)
}

// SatisfactionRate round(avg / 5 * 100)，count 为 0 时返回默认值
func SatisfactionRate(avg float64, count int64) int {
	if count == 0 {
		return DefaultSatisfactionRate
	}
	return int(math.Round(avg / 5 * 100))
}

// ComputeLanding 汇总首页统计
func ComputeLanding(ctx context.Context, r Reader) (LandingStats, error) {
	var (
		out LandingStats
		err error
	)
	if out.TotalListings, err = r.CountListings(ctx); err != nil {
		return LandingStats{}, err
	}
	if out.TotalUsers, err = r.CountDistinctUsers(ctx); err != nil {
		return LandingStats{}, err
	}
	if out.CompletedDeals, err = r.CountSold(ctx); err != nil {
		return LandingStats{}, err
	}
	if out.TotalDealers, err = r.CountDealers(ctx); err != nil {
		return LandingStats{}, err
	}
	avg, count, err := r.AverageVerifiedRating(ctx)
	if err != nil {
		return LandingStats{}, err
	}
	out.SatisfactionRate = SatisfactionRate(avg, count)
	return out, nil
}
