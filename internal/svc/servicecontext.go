package svc

import (
	"context"
	"log"
	"time"

	"compass-earn/internal/cache"
	"compass-earn/internal/cctp"
	"compass-earn/internal/chain"
	"compass-earn/internal/compass"
	"compass-earn/internal/config"
	"compass-earn/internal/model"
	"compass-earn/internal/pipeline"
	"compass-earn/internal/poll"
	"compass-earn/internal/signer"

	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ChainDialer opens an RPC connection; the returned func releases it.
type ChainDialer func(ctx context.Context, c config.ChainConf) (chain.Client, func(), error)

type ServiceContext struct {
	Config          config.Config
	Compass         *compass.Client
	Circle          *cctp.Client
	// Signer and Sponsor are nil unless their keys are configured.
	Signer          *signer.Signer
	Sponsor         *signer.Signer
	DB              *gorm.DB
	SubmissionsDao  model.SubmissionsDao
	EarnAccountsDao model.EarnAccountsDao
	VaultCache      *cache.VaultCache
	Dialer          ChainDialer
}

func NewServiceContext(c config.Config) *ServiceContext {
	ctx := &ServiceContext{
		Config:  c,
		Compass: compass.NewClient(c.Compass),
		Circle:  cctp.NewClient(c.Circle.IrisUrl, poll.FromConf(c.Circle.Poll)),
		Dialer:  dialEthClient,
	}

	var err error
	if ctx.Signer, err = optionalSigner(c.Signer.PrivateKey); err != nil {
		log.Fatalf("invalid signer key: %v", err)
	}
	if ctx.Sponsor, err = optionalSigner(c.Signer.SponsorPrivateKey); err != nil {
		log.Fatalf("invalid sponsor key: %v", err)
	}

	if c.Postgres.DSN != "" {
		db, err := initDB(c.Postgres.DSN)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		ctx.DB = db
		ctx.SubmissionsDao = model.NewSubmissionsDao(db)
		ctx.EarnAccountsDao = model.NewEarnAccountsDao(db)
	} else {
		logx.Info("未配置 Postgres, 交易记录不会持久化")
	}

	vaultCache, err := cache.NewVaultCache(c.VaultCache.Ttl, c.VaultCache.MaxEntrySize)
	if err != nil {
		logx.Errorf("vault cache disabled: %v", err)
	} else {
		ctx.VaultCache = vaultCache
	}

	return ctx
}

// Close releases the cache and database pool.
func (s *ServiceContext) Close() {
	if s.VaultCache != nil {
		_ = s.VaultCache.Close()
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// Recorder returns the submission recorder, or nil when nothing is persisted.
func (s *ServiceContext) Recorder() pipeline.Recorder {
	if s.SubmissionsDao == nil {
		return nil
	}
	return model.NewSubmissionRecorder(s.SubmissionsDao)
}

// Submitter wires a pipeline for chainName signed by txSigner. The returned
// func closes the RPC connection.
func (s *ServiceContext) Submitter(ctx context.Context, chainName string, txSigner *signer.Signer) (*pipeline.Submitter, func(), error) {
	if txSigner == nil {
		return nil, nil, pipeline.ErrSignerRequired
	}
	chainConf, err := s.Config.Chain(chainName)
	if err != nil {
		return nil, nil, err
	}
	client, closeFn, err := s.Dialer(ctx, chainConf)
	if err != nil {
		return nil, nil, err
	}
	return &pipeline.Submitter{
		Signer:      txSigner,
		Preparer:    chain.Filler{Client: client},
		Broadcaster: chain.NewBroadcaster(client),
		Confirmer:   chain.NewReceiptWaiter(client, poll.FromConf(s.Config.Poll)),
		Recorder:    s.Recorder(),
	}, closeFn, nil
}

func dialEthClient(ctx context.Context, c config.ChainConf) (chain.Client, func(), error) {
	client, err := chain.Dial(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

func optionalSigner(key string) (*signer.Signer, error) {
	if key == "" {
		return nil, nil
	}
	return signer.FromHex(key)
}

func initDB(dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Submissions{}, &model.EarnAccounts{}); err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}
