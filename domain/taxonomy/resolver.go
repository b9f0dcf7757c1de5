package taxonomy

import (
	"context"
	"strings"
)

// Resolver 分类层级解析（领域服务，只读）
// 校验 ID 存在性与父子关系，错误均为客户端错误，不重试
type Resolver struct {
	repo Repository
}

// NewResolver 创建层级解析服务
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Chain 已校验的完整层级
type Chain struct {
	Category *Category
	Make     *Make
	Model    *VehicleModel
}

// ResolveCategory 校验分类存在
func (r *Resolver) ResolveCategory(ctx context.Context, categoryID string) (*Category, error) {
	return r.repo.FindCategory(ctx, categoryID)
}

// ResolveMake 校验品牌存在且属于 categoryID；categoryID 为空时只校验存在性
func (r *Resolver) ResolveMake(ctx context.Context, categoryID, makeID string) (*Make, error) {
	mk, err := r.repo.FindMake(ctx, makeID)
	if err != nil {
		return nil, err
	}
	if categoryID != "" && mk.CategoryID() != categoryID {
		return nil, NewMismatchedParentError("make", "make_id", makeID, "category "+categoryID)
	}
	return mk, nil
}

// ResolveModel 校验车型存在且属于 makeID；makeID 为空时只校验存在性
func (r *Resolver) ResolveModel(ctx context.Context, makeID, modelID string) (*VehicleModel, error) {
	md, err := r.repo.FindModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if makeID != "" && md.MakeID() != makeID {
		return nil, NewMismatchedParentError("model", "model_id", modelID, "make "+makeID)
	}
	return md, nil
}

// ResolveChain 自上而下校验 category → make → model
func (r *Resolver) ResolveChain(ctx context.Context, categoryID, makeID, modelID string) (*Chain, error) {
	category, err := r.repo.FindCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	mk, err := r.ResolveMake(ctx, category.ID(), makeID)
	if err != nil {
		return nil, err
	}
	md, err := r.ResolveModel(ctx, mk.ID(), modelID)
	if err != nil {
		return nil, err
	}
	return &Chain{Category: category, Make: mk, Model: md}, nil
}

// ResolveMakeByName 按名称解析品牌
func (r *Resolver) ResolveMakeByName(ctx context.Context, categoryID, name string) (*Make, error) {
	return r.repo.FindMakeByName(ctx, categoryID, strings.TrimSpace(name))
}

// ResolveModelByName 按名称解析车型
func (r *Resolver) ResolveModelByName(ctx context.Context, makeID, name string) (*VehicleModel, error) {
	return r.repo.FindModelByName(ctx, makeID, strings.TrimSpace(name))
}

// MatchNames 返回名称包含 term 的品牌与车型 ID，用于文本搜索模式
func (r *Resolver) MatchNames(ctx context.Context, term string) (makeIDs, modelIDs []string, err error) {
	makeIDs, err = r.repo.MatchMakeIDs(ctx, term)
	if err != nil {
		return nil, nil, err
	}
	modelIDs, err = r.repo.MatchModelIDs(ctx, term)
	if err != nil {
		return nil, nil, err
	}
	return makeIDs, modelIDs, nil
}
