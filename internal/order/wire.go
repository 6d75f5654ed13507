package order

import (
	"database/sql"

	"go.uber.org/zap"

	"vincula/internal/audit"
	catalogrepo "vincula/internal/catalog/repository"
	clientrepo "vincula/internal/client/repository"
	"vincula/internal/config"
	"vincula/internal/infrastructure/mysql"
	"vincula/internal/metrics"
	"vincula/internal/order/controller"
	"vincula/internal/order/repository"
	"vincula/internal/order/service"
	"vincula/internal/order/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLOrderItemRepository(db)
	historyRepo := repository.NewMySQLHistoryRepository(db)
	productRepo := catalogrepo.NewMySQLProductRepository(db)
	clientRepo := clientrepo.NewMySQLClientRepository(db)
	auditor := audit.NewMySQLRecorder(db)

	resolver := service.NewItemResolver(productRepo)

	lifecycle := service.NewLifecycleService(
		mysql.NewTxRunner(db),
		orderRepo,
		itemRepo,
		historyRepo,
		clientRepo,
		resolver,
		auditor,
		m,
		logger,
		cfg.Order.TxTimeout,
	)

	uc := usecase.NewOrderUseCase(lifecycle, logger, cfg.Order.MaxRetryAttempts)

	return controller.NewOrderController(uc, logger)
}
