package bootstrap

import (
	"fmt"

	billingapp "github.com/orderhub/backend/internal/application/billing"
	catalogapp "github.com/orderhub/backend/internal/application/catalog"
	hierarchyapp "github.com/orderhub/backend/internal/application/hierarchy"
	identityapp "github.com/orderhub/backend/internal/application/identity"
	"github.com/orderhub/backend/internal/application/integration"
	notificationapp "github.com/orderhub/backend/internal/application/notification"
	orderingapp "github.com/orderhub/backend/internal/application/ordering"
	partnerapp "github.com/orderhub/backend/internal/application/partner"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/cache"
	"github.com/orderhub/backend/internal/infrastructure/persistence"
	"github.com/orderhub/backend/internal/infrastructure/scheduler"
	"github.com/orderhub/backend/internal/interfaces/http/handler"
	"github.com/orderhub/backend/internal/interfaces/http/router"
)

// Version is set at build time via -ldflags
var Version = "dev"

func (a *App) settingsCache() hierarchy.SettingsCache {
	if a.Cache != nil {
		if sc, err := a.Cache.CreateSettingsCache(); err == nil {
			return sc
		}
		a.Logger.Warn("redis settings cache unavailable, using in-memory cache")
	}
	return cache.NewInMemorySettingsCache()
}

func (a *App) idempotencyStore() shared.IdempotencyStore {
	if a.Cache != nil {
		if store, err := a.Cache.CreateIdempotencyStore(); err == nil {
			return store
		}
		a.Logger.Warn("redis idempotency store unavailable, using in-memory store")
	}
	return cache.NewInMemoryIdempotencyStore()
}

// BuildPartner assembles the partner service: suppliers, customer
// hierarchy and identity/auth
func (a *App) BuildPartner() ([]router.RouteRegistrar, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("partner service requires a database")
	}
	db := a.DB.DB

	users := persistence.NewGormUserRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)
	nodes := persistence.NewGormNodeRepository(db)
	settings := a.settingsCache()

	authService := identityapp.NewAuthService(users, a.JWT, a.Blacklist, a.Publisher, a.Logger)
	userService := identityapp.NewUserService(users, a.Publisher, a.Logger)
	supplierService := partnerapp.NewSupplierService(suppliers, a.Publisher, a.Logger)
	nodeService := hierarchyapp.NewNodeService(nodes, settings, a.Publisher, a.Logger)

	// Settings cache invalidation follows hierarchy events so stale
	// effective settings never outlive a structure change
	a.Bus.Subscribe(integration.NewSettingsCacheHandler(settings, nodes, a.Logger))

	return []router.RouteRegistrar{
		handler.NewSystemHandler(a.ServiceName, Version),
		handler.NewAuthHandler(authService, userService),
		handler.NewUserHandler(userService),
		handler.NewSupplierHandler(supplierService),
		handler.NewNodeHandler(nodeService),
	}, nil
}

// BuildCatalog assembles the catalog service: products and the SKU
// share workflow
func (a *App) BuildCatalog() ([]router.RouteRegistrar, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("catalog service requires a database")
	}
	db := a.DB.DB

	products := persistence.NewGormProductRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)
	shares := persistence.NewGormSkuShareRepository(db)
	audits := persistence.NewGormShareAuditLogRepository(db)
	nodes := persistence.NewGormNodeRepository(db)

	productService := catalogapp.NewProductService(products, suppliers, a.Storage, a.Publisher, a.Logger)
	shareService := catalogapp.NewShareService(shares, products, nodes, audits, a.Publisher, a.Logger)

	return []router.RouteRegistrar{
		handler.NewSystemHandler(a.ServiceName, Version),
		handler.NewProductHandler(productService),
		handler.NewShareHandler(shareService),
	}, nil
}

// BuildOrders assembles the orders service: order lifecycle plus the
// acceptance workflow, with the event-driven bridge into billing
func (a *App) BuildOrders() ([]router.RouteRegistrar, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("orders service requires a database")
	}
	db := a.DB.DB

	orders := persistence.NewGormOrderRepository(db)
	acceptances := persistence.NewGormAcceptanceRepository(db)
	products := persistence.NewGormProductRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)
	nodes := persistence.NewGormNodeRepository(db)
	shares := persistence.NewGormSkuShareRepository(db)
	audits := persistence.NewGormShareAuditLogRepository(db)
	transactions := persistence.NewGormTransactionRepository(db)
	rateConfigs := persistence.NewGormRateConfigRepository(db)

	shareService := catalogapp.NewShareService(shares, products, nodes, audits, a.Publisher, a.Logger)
	orderService := orderingapp.NewOrderService(orders, products, suppliers, nodes, shareService, a.Publisher, a.Logger)
	acceptanceService := orderingapp.NewAcceptanceService(acceptances, orders, a.Storage, a.Publisher, a.Logger)
	transactionService := billingapp.NewTransactionService(transactions, rateConfigs, a.Publisher, a.Logger)

	// Delivered -> acceptance opened -> accepted/disputed -> closed ->
	// billing transaction, driven by events so each step survives a
	// crash and replays safely
	a.Bus.Subscribe(integration.NewOrderFlowHandler(
		orderService,
		acceptanceService,
		transactionService,
		a.idempotencyStore(),
		shared.DefaultIdempotencyConfig(),
		a.Logger,
	))

	return []router.RouteRegistrar{
		handler.NewSystemHandler(a.ServiceName, Version),
		handler.NewOrderHandler(orderService),
		handler.NewAcceptanceHandler(acceptanceService),
	}, nil
}

// BuildBilling assembles the billing service: rate configs,
// transactions, statements and the settlement scheduler
func (a *App) BuildBilling() ([]router.RouteRegistrar, *scheduler.SettlementScheduler, error) {
	if a.DB == nil {
		return nil, nil, fmt.Errorf("billing service requires a database")
	}
	db := a.DB.DB

	rateConfigs := persistence.NewGormRateConfigRepository(db)
	transactions := persistence.NewGormTransactionRepository(db)
	statements := persistence.NewGormStatementRepository(db)

	rateConfigService := billingapp.NewRateConfigService(rateConfigs, a.Publisher, a.Logger)
	transactionService := billingapp.NewTransactionService(transactions, rateConfigs, a.Publisher, a.Logger)
	settlementService := billingapp.NewSettlementService(transactions, statements, rateConfigs, a.Publisher, a.Metrics, a.Logger)

	settlements := scheduler.NewSettlementScheduler(a.Config.Billing, settlementService, transactions, a.Logger)

	registrars := []router.RouteRegistrar{
		handler.NewSystemHandler(a.ServiceName, Version),
		handler.NewBillingHandler(rateConfigService, transactionService, settlementService, settlements),
	}
	return registrars, settlements, nil
}


// BuildNotify assembles the notification service: the inbox API plus
// the event-driven fanout
func (a *App) BuildNotify() ([]router.RouteRegistrar, *notificationapp.NotificationService, error) {
	if a.DB == nil {
		return nil, nil, fmt.Errorf("notify service requires a database")
	}
	db := a.DB.DB

	notifications := persistence.NewGormNotificationRepository(db)
	users := persistence.NewGormUserRepository(db)

	notificationService := notificationapp.NewNotificationService(notifications, a.Notifier, a.Metrics, a.Logger)

	a.Bus.Subscribe(integration.NewNotificationHandler(notificationService, users, a.Logger))

	registrars := []router.RouteRegistrar{
		handler.NewSystemHandler(a.ServiceName, Version),
		handler.NewNotificationHandler(notificationService),
	}
	return registrars, notificationService, nil
}

// NewRouter builds the standard gin engine for this service
func (a *App) NewRouter(extraSkipPaths ...string) *router.Router {
	return router.New(router.Options{
		ServiceName:    a.ServiceName,
		Config:         a.Config,
		Logger:         a.Logger,
		JWTService:     a.JWT,
		Blacklist:      a.Blacklist,
		ExtraSkipPaths: extraSkipPaths,
	})
}
