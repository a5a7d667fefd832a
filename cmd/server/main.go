package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	cataloghandler "fieldpos/internal/catalog/handler"
	catalogmetrics "fieldpos/internal/catalog/metrics"
	catalogservice "fieldpos/internal/catalog/service"
	categorystore "fieldpos/internal/catalog/store/category"
	productstore "fieldpos/internal/catalog/store/product"
	customerhandler "fieldpos/internal/customer/handler"
	customerservice "fieldpos/internal/customer/service"
	customerstore "fieldpos/internal/customer/store/customer"
	"fieldpos/internal/events"
	"fieldpos/internal/jwtauth"
	maintadapters "fieldpos/internal/maintenance/adapters"
	mainthandler "fieldpos/internal/maintenance/handler"
	maintmetrics "fieldpos/internal/maintenance/metrics"
	maintservice "fieldpos/internal/maintenance/service"
	contractstore "fieldpos/internal/maintenance/store/contract"
	visitstore "fieldpos/internal/maintenance/store/visit"
	"fieldpos/internal/maintenance/workers/expiry"
	"fieldpos/internal/notify"
	"fieldpos/internal/platform/config"
	"fieldpos/internal/platform/database"
	"fieldpos/internal/platform/health"
	"fieldpos/internal/platform/kafka"
	"fieldpos/internal/platform/kafka/producer"
	"fieldpos/internal/platform/logger"
	"fieldpos/internal/platform/redis"
	reporthandler "fieldpos/internal/report/handler"
	reportmetrics "fieldpos/internal/report/metrics"
	reportservice "fieldpos/internal/report/service"
	reportstore "fieldpos/internal/report/store"
	saleadapters "fieldpos/internal/sale/adapters"
	salehandler "fieldpos/internal/sale/handler"
	salemetrics "fieldpos/internal/sale/metrics"
	saleservice "fieldpos/internal/sale/service"
	salestore "fieldpos/internal/sale/store/sale"
	"fieldpos/internal/seeder"
	staffadapters "fieldpos/internal/staff/adapters"
	staffhandler "fieldpos/internal/staff/handler"
	staffmetrics "fieldpos/internal/staff/metrics"
	staffservice "fieldpos/internal/staff/service"
	staffstore "fieldpos/internal/staff/store/staff"
	tenanthandler "fieldpos/internal/tenant/handler"
	tenantmetrics "fieldpos/internal/tenant/metrics"
	tenantservice "fieldpos/internal/tenant/service"
	branchstore "fieldpos/internal/tenant/store/branch"
	tenantstore "fieldpos/internal/tenant/store/tenant"
	"fieldpos/internal/tracer"
	httptransport "fieldpos/internal/transport/http"
	"fieldpos/pkg/platform/middleware/request"
)

// main wires stores, services, and the HTTP surface, then runs the server
// until a signal arrives. Business logic lives in the context packages; this
// file only decides which implementations to plug together.
func main() {
	// .env is a development convenience; deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing fieldpos",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	// 1. Database. No URL means memory stores, so the demo environment and
	// local development run without any infrastructure.
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
		err = pool.Migrate(migrateCtx)
		cancelMigrate()
		if err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		log.Info("database ready")
	} else {
		log.Info("no database configured, using memory stores")
	}

	// 2. Redis. Optional; the tenant gate and report cache fall back to
	// store reads when absent.
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		log.Info("redis connected")
	}

	// 3. Kafka. Optional; domain events are dropped when no brokers are
	// configured.
	var kafkaProducer *producer.Producer
	var publisher events.Publisher
	if cfg.Kafka.Brokers != "" {
		kafkaProducer, err = producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		publisher = events.NewKafkaPublisher(kafkaProducer)
		log.Info("kafka producer ready", "brokers", cfg.Kafka.Brokers)
	}

	// 4. Stores: postgres behind the pool, memory otherwise.
	var (
		tenants    tenantservice.TenantStore
		branches   tenantservice.BranchStore
		staff      staffservice.StaffStore
		categories catalogservice.CategoryStore
		products   catalogservice.ProductStore
		customers  customerservice.CustomerStore
		sales      saleservice.SaleStore
		contracts  maintservice.ContractStore
		visits     maintservice.VisitStore

		reportSales reportservice.SalesSource
		reportMaint reportservice.MaintenanceSource

		runner *postgresTx
	)
	if pool != nil {
		db := pool.DB()
		tenants = tenantstore.NewPostgres(db)
		branches = branchstore.NewPostgres(db)
		staff = staffstore.NewPostgres(db)
		categories = categorystore.NewPostgres(db)
		products = productstore.NewPostgres(db)
		customers = customerstore.NewPostgres(db)
		sales = salestore.NewPostgres(db)
		contracts = contractstore.NewPostgres(db)
		visits = visitstore.NewPostgres(db)

		reportPg := reportstore.NewPostgres(db)
		reportSales, reportMaint = reportPg, reportPg

		runner = newPostgresTx(db)
	} else {
		tenants = tenantstore.NewInMemory()
		branches = branchstore.NewInMemory()
		staff = staffstore.NewInMemory()
		categories = categorystore.NewInMemory()
		products = productstore.NewInMemory()
		customers = customerstore.NewInMemory()
		sales = salestore.NewInMemory()
		contracts = contractstore.NewInMemory()
		visits = visitstore.NewInMemory()

		reportMem := reportstore.NewMemory(reportstore.MemoryDeps{
			Sales:     sales,
			Contracts: contracts,
			Visits:    visits,
			Branches:  branches,
			Staff:     staff,
			Customers: customers,
		})
		reportSales, reportMaint = reportMem, reportMem
	}

	// 5. Services. Metrics collectors register on the default prometheus
	// registry, so each is built exactly once and shared.
	tenantMetrics := tenantmetrics.New()
	staffMetrics := staffmetrics.New()
	catalogMetrics := catalogmetrics.New()
	saleMetrics := salemetrics.New()
	maintMetrics := maintmetrics.New()
	reportMetrics := reportmetrics.New()

	var gateCache tenantservice.Cache
	if redisClient != nil {
		gateCache = redisClient
	}
	gate := tenantservice.NewGate(tenants, gateCache, 0, log, tenantMetrics)

	staffOpts := []staffservice.Option{
		staffservice.WithLogger(log),
		staffservice.WithMetrics(staffMetrics),
		staffservice.WithBranchDirectory(staffadapters.NewBranchDirectory(branches)),
	}
	if runner != nil {
		staffOpts = append(staffOpts, staffservice.WithStoreTx(runner))
	}
	staffSvc := staffservice.NewStaffService(staff, staffOpts...)

	tenantOpts := []tenantservice.Option{
		tenantservice.WithLogger(log),
		tenantservice.WithMetrics(tenantMetrics),
		tenantservice.WithEventPublisher(publisher),
		tenantservice.WithOwnerProvisioner(staffSvc),
		tenantservice.WithStaffCounter(staffSvc),
		tenantservice.WithGate(gate),
	}
	if runner != nil {
		tenantOpts = append(tenantOpts, tenantservice.WithStoreTx(runner))
	}
	tenantSvc := tenantservice.NewTenantService(tenants, branches, tenantOpts...)
	branchSvc := tenantservice.NewBranchService(branches, tenants, tenantOpts...)

	catalogOpts := []catalogservice.Option{
		catalogservice.WithLogger(log),
		catalogservice.WithMetrics(catalogMetrics),
	}
	if runner != nil {
		catalogOpts = append(catalogOpts, catalogservice.WithStoreTx(runner))
	}
	categorySvc := catalogservice.NewCategoryService(categories, catalogOpts...)
	productSvc := catalogservice.NewProductService(products, categories, catalogOpts...)

	customerOpts := []customerservice.Option{
		customerservice.WithLogger(log),
	}
	if runner != nil {
		customerOpts = append(customerOpts, customerservice.WithStoreTx(runner))
	}
	customerSvc := customerservice.NewCustomerService(customers, customerOpts...)

	saleOpts := []saleservice.Option{
		saleservice.WithLogger(log),
		saleservice.WithMetrics(saleMetrics),
		saleservice.WithEventPublisher(publisher),
		saleservice.WithBranchDirectory(saleadapters.NewBranchDirectory(branches)),
		saleservice.WithCustomerDirectory(saleadapters.NewCustomerDirectory(customers)),
	}
	if runner != nil {
		saleOpts = append(saleOpts, saleservice.WithStoreTx(runner))
	}
	saleSvc := saleservice.NewSaleService(sales, saleadapters.NewProductCatalog(products), saleOpts...)

	notifiers := notify.Multi{notify.NewLogNotifier(log)}
	if cfg.NotifyWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.NotifyWebhookURL))
		log.Info("webhook notifications enabled")
	}

	maintOpts := []maintservice.Option{
		maintservice.WithLogger(log),
		maintservice.WithMetrics(maintMetrics),
		maintservice.WithEventPublisher(publisher),
		maintservice.WithTracer(tracer.NewOTel()),
		maintservice.WithNotifier(notifiers),
		maintservice.WithBranchDirectory(maintadapters.NewBranchDirectory(branches)),
		maintservice.WithCustomerDirectory(maintadapters.NewCustomerDirectory(customers)),
		maintservice.WithSaleDirectory(maintadapters.NewSaleDirectory(sales)),
		maintservice.WithStaffDirectory(maintadapters.NewStaffDirectory(staff)),
	}
	if runner != nil {
		maintOpts = append(maintOpts, maintservice.WithStoreTx(runner))
	}
	contractSvc := maintservice.NewContractService(contracts, visits, maintadapters.NewProductDirectory(products), maintOpts...)
	visitSvc := maintservice.NewVisitService(visits, contracts, maintOpts...)
	sweeper := maintservice.NewSweeper(contracts, visits, maintOpts...)

	reportOpts := []reportservice.Option{
		reportservice.WithLogger(log),
		reportservice.WithMetrics(reportMetrics),
		reportservice.WithTracer(tracer.NewOTel()),
		reportservice.WithCacheTTL(config.ReportCacheTTL),
	}
	if redisClient != nil {
		reportOpts = append(reportOpts, reportservice.WithCache(redisClient))
	}
	reportSvc := reportservice.New(reportSales, reportMaint, reportOpts...)

	// 6. Demo data. Only when running on memory stores, so a restart starts
	// from the same clean dataset.
	if cfg.Environment == "demo" && pool == nil {
		demoSeeder := seeder.New(seeder.Deps{
			Tenants:    tenantSvc,
			Branches:   branchSvc,
			Staff:      staffSvc,
			Categories: categorySvc,
			Products:   productSvc,
			Customers:  customerSvc,
			Register:   saleSvc,
			Contracts:  contractSvc,
		}, log)
		if err := demoSeeder.SeedAll(context.Background()); err != nil {
			log.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	// 7. Tokens and health.
	jwtSvc := jwtauth.NewService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenTTL)
	jwtSvc.SetEnv(cfg.Environment)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(checkCtx)
		})
	}
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(checkCtx)
		})
	}
	if cfg.Kafka.Brokers != "" {
		kafkaChecker := kafka.NewHealthChecker(cfg.Kafka.Brokers)
		healthHandler.RegisterCheck("kafka", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return kafkaChecker.Check(checkCtx)
		})
	}

	// 8. HTTP surface.
	router := httptransport.NewRouter(httptransport.Handlers{
		Health:      healthHandler,
		Tenants:     tenanthandler.New(tenantSvc, branchSvc, log),
		Staff:       staffhandler.New(staffSvc, staffSvc, jwtSvc, log),
		Catalog:     cataloghandler.New(categorySvc, productSvc, log),
		Customers:   customerhandler.New(customerSvc, log),
		Sales:       salehandler.New(saleSvc, log),
		Maintenance: mainthandler.New(contractSvc, visitSvc, sweeper, log),
		Reports:     reporthandler.New(reportSvc, log),
	}, httptransport.Config{
		TokenValidator: jwtauth.NewServiceAdapter(jwtSvc),
		TenantGate:     gate,
		AdminToken:     cfg.AdminToken,
		Metrics:        request.NewMetrics(),
	}, log)

	// 9. Background sweep. The worker shares the sweeper with the manual
	// admin trigger, so both paths apply the same rules.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if cfg.Sweep.Enabled {
		sweepWorker, err := expiry.New(sweeper,
			expiry.WithInterval(cfg.Sweep.Interval),
			expiry.WithLogger(log),
		)
		if err != nil {
			log.Error("sweep worker init failed", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := sweepWorker.Start(workerCtx); err != nil {
				log.Error("sweep worker stopped", "error", err)
			}
		}()
		log.Info("expiration sweep scheduled", "interval", cfg.Sweep.Interval.String())
	} else {
		log.Info("expiration sweep disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")
	stopWorker()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Warn("kafka close failed", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if pool != nil {
		if err := pool.Close(); err != nil {
			log.Warn("database close failed", "error", err)
		}
	}

	log.Info("server stopped")
}
