package app

import (
	"database/sql"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/realtime"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type modules struct {
	dispatcher *leave.AsyncDispatcher
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	live realtime.Publisher,
	hub *realtime.Hub,
	logger *zap.Logger,
) (*modules, error) {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	tokenRepo := approvaltoken.NewRepository(db)
	leaveRepo := leave.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService, err := rbac.NewService(enforcer, logger)
	if err != nil {
		return nil, err
	}

	// --- Notifications ---
	var notifier notification.Notifier
	if cfg.Notification.Mode == config.NotificationModeOutbox {
		notifier = notification.NewOutboxNotifier(kafka.NewOutboxRepository(db), live, logger)
	} else {
		mailer := notification.NewMailer(cfg.Mail, logger)
		notifier = notification.NewService(mailer, live, cfg.Server.BaseURL, logger)
	}

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, userRepo, rdb, logger)
	balanceService := balance.NewService(balanceRepo, logger)
	tokenService := approvaltoken.NewService(tokenRepo, logger)

	runner := leave.NewRunner(notifier, tokenService, employeeService, logger)
	dispatcher := leave.NewAsyncDispatcher(runner, cfg.Notification.DispatchLimit)
	leaveService := leave.NewService(db, leaveRepo, employeeService, balanceService, tokenService, dispatcher, logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	rbacHandler := rbac.NewHandler(rbacService)
	streamHandler := realtime.NewStreamHandler(hub)

	auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, auth, rdb)

		secured := api.Group("")
		secured.Use(auth)
		balance.RegisterRoutes(secured, balanceHandler, rbacService)
		rbac.RegisterRoutes(secured, rbacHandler)
		realtime.RegisterRoutes(secured, streamHandler)
	}

	return &modules{dispatcher: dispatcher}, nil
}
