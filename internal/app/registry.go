package app

import (
	"context"
	"database/sql"
	"os"
	"time"

	"go-offboard/internal/approval"
	"go-offboard/internal/approver"
	"go-offboard/internal/messaging/kafka"
	"go-offboard/internal/middleware"
	"go-offboard/internal/rbac"
	"go-offboard/internal/rbac/infra"
	"go-offboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) (func(), error) {
	logger := zap.L().Named("app.registry")
	ctx := context.Background()

	if err := gormDB.AutoMigrate(
		&approver.Approver{},
		&session.OffboardingSession{},
		&session.OffboardingTask{},
	); err != nil {
		return nil, err
	}

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	approverRepo := approver.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Approver directory and approval templates ---
	directory, err := approver.EnsureSeed(ctx, approverRepo)
	if err != nil {
		return nil, err
	}

	templateRegistry := approval.NewMemoryTemplateRegistry()
	requestStore := approval.NewMemoryRequestStore()
	pendingIndex := approval.NewMemoryPendingIndex()

	if err := approval.SeedTemplates(templateRegistry, toEngineApprovers(directory)); err != nil {
		return nil, err
	}

	// --- Services ---
	approverService := approver.NewService(approverRepo)
	approvalService := approval.NewServiceWithOutbox(
		approval.DefaultConfig(),
		templateRegistry,
		requestStore,
		pendingIndex,
		outboxRepo,
	)
	sessionService := session.NewService(db, sessionRepo, approvalService)

	// --- Handlers ---
	approverHandler := approver.NewHandler(approverService)
	approvalHandler := approval.NewHandler(approvalService, rdb)
	sessionHandler := session.NewHandler(sessionService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	{
		approver.RegisterRoutes(api, approverHandler, rbacService)
		approval.RegisterRoutes(api, approvalHandler, rbacService, rdb)
		session.RegisterRoutes(api, sessionHandler, rbacService)
	}

	rbac.RegisterRoutes(router, rbacHandler)

	// The escalation sweep runs inside the API process because the engine's
	// stores live in its memory.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runEscalationSweep(sweepCtx, approvalService, logger)

	return stopSweep, nil
}

func toEngineApprovers(directory []approver.Approver) []approval.Approver {
	out := make([]approval.Approver, 0, len(directory))
	for _, a := range directory {
		ea := approval.Approver{
			ID:    a.ID.String(),
			Name:  a.Name,
			Email: a.Email,
			Role:  a.Role,
		}
		if a.DelegateTo != nil {
			ea.DelegateTo = a.DelegateTo.String()
		}
		out = append(out, ea)
	}
	return out
}

func runEscalationSweep(ctx context.Context, svc approval.Service, logger *zap.Logger) {
	interval := time.Minute
	if raw := os.Getenv("ESCALATION_SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			interval = d
		} else {
			logger.Warn("invalid ESCALATION_SWEEP_INTERVAL, using default",
				zap.String("value", raw),
				zap.Duration("default", interval),
			)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("escalation sweep started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("escalation sweep stopped")
			return
		case <-ticker.C:
			escalated, err := svc.CheckEscalations(ctx)
			if err != nil {
				logger.Error("escalation sweep failed", zap.Error(err))
				continue
			}
			if len(escalated) > 0 {
				logger.Info("escalation sweep escalated requests", zap.Int("count", len(escalated)))
			}
		}
	}
}
