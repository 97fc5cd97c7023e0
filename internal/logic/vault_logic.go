package logic

import (
	"context"
	"strconv"

	"compass-earn/internal/cache"
	"compass-earn/internal/compass"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type VaultLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewVaultLogic(ctx context.Context, svcCtx *svc.ServiceContext) *VaultLogic {
	return &VaultLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Vault 查询金库详情，传入 user 时附带用户持仓
func (l *VaultLogic) Vault(req *types.VaultReq) (*compass.Vault, error) {
	address, err := requireAddress("address", req.Address)
	if err != nil {
		return nil, err
	}
	user := req.User
	if user != "" {
		if user, err = requireAddress("user", user); err != nil {
			return nil, err
		}
	}

	vault, err := l.svcCtx.Compass.Vault(l.ctx, req.Chain, address, user)
	if err != nil {
		l.Errorf("查询金库失败 %s: %v", address, err)
		return nil, err
	}
	return vault, nil
}

// Vaults 查询 earn 金库列表
func (l *VaultLogic) Vaults(req *types.VaultListReq) (*compass.VaultList, error) {
	list, err := l.svcCtx.Compass.Vaults(l.ctx, toVaultQuery(req))
	if err != nil {
		l.Errorf("查询金库列表失败: %v", err)
		return nil, err
	}
	return list, nil
}

// MorphoVaults 查询 Morpho 金库列表，结果按查询条件缓存
func (l *VaultLogic) MorphoVaults(req *types.VaultListReq) (*compass.VaultList, error) {
	key := cache.Key("morpho", req.Chain, req.OrderBy, req.Direction,
		strconv.Itoa(req.Limit), strconv.Itoa(req.Offset), req.Asset)

	list, err := cache.GetOrLoad(l.ctx, l.svcCtx.VaultCache, key, func() (*compass.VaultList, error) {
		l.Infof("缓存未命中，请求 Morpho 金库列表: %s", key)
		return l.svcCtx.Compass.MorphoVaults(l.ctx, toVaultQuery(req))
	})
	if err != nil {
		l.Errorf("查询 Morpho 金库列表失败: %v", err)
		return nil, err
	}
	return list, nil
}

func toVaultQuery(req *types.VaultListReq) compass.VaultQuery {
	return compass.VaultQuery{
		Chain:     req.Chain,
		OrderBy:   req.OrderBy,
		Direction: req.Direction,
		Limit:     req.Limit,
		Offset:    req.Offset,
		Asset:     req.Asset,
	}
}
