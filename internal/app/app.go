package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsdevblog/transactions-service/internal/broadcast"
	"github.com/fsdevblog/transactions-service/internal/config"
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/events"
	"github.com/fsdevblog/transactions-service/internal/repository/pgrepo"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/internal/seed"
	"github.com/fsdevblog/transactions-service/internal/service"
	"github.com/fsdevblog/transactions-service/internal/transport/api"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	redisPingTimeout  = 3 * time.Second
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// Run поднимает сервис и блокируется до сигнала остановки или ошибки http сервера.
// При остановке сначала закрывается хаб (это завершает SSE потоки), затем http сервер, затем пул БД.
func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// суммы в ответах отдаются числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true

	a.Logger.WithFields(logrus.Fields{
		"runAddress":       a.Config.RunAddress,
		"migrationsDir":    a.Config.MigrationsDir,
		"redisAddress":     a.Config.RedisAddress,
		"redisStream":      a.Config.RedisStream,
		"streamBufferSize": a.Config.StreamBufferSize,
		"seedData":         a.Config.SeedData,
	}).Info("Starting app")

	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	if a.Config.SeedData {
		if seedErr := seed.New(unitOfWork, a.Logger).Run(notifyCtx); seedErr != nil {
			return fmt.Errorf("app run: %s", seedErr.Error())
		}
	}

	hub := broadcast.NewHub[domain.Transaction](a.Config.StreamBufferSize)
	defer hub.Close()

	services, sErr := service.Factory(unitOfWork, hub, a.Logger)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	relayWG := new(sync.WaitGroup)
	if a.Config.RedisAddress != "" {
		redisClient, redisErr := a.connectRedis(notifyCtx)
		if redisErr != nil {
			return fmt.Errorf("app run: %s", redisErr.Error())
		}
		defer redisClient.Close()

		relay := events.NewRelay(redisClient, hub, a.Config.RedisStream, a.Logger)
		relayWG.Add(1)
		go func() {
			defer relayWG.Done()
			relay.Run(notifyCtx)
		}()
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:             a.Logger,
		TransactionService: services.TransactionService,
		CreditCardService:  services.CreditCardService,
		Stream:             hub,
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	server := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if runErr := server.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	var runErr error
	select {
	case <-notifyCtx.Done():
		runErr = notifyCtx.Err()
	case err := <-errChan:
		runErr = fmt.Errorf("app run: %w", err)
	}

	a.shutdown(hub, server)
	relayWG.Wait()
	return runErr
}

func (a *App) shutdown(hub *broadcast.Hub[domain.Transaction], server *http.Server) {
	a.Logger.Info("Shutting down")
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		a.Logger.WithError(err).Error("http server shutdown")
	}
}

func (a *App) connectRedis(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: a.Config.RedisAddress,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping `%s`: %w", a.Config.RedisAddress, err)
	}
	return client, nil
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.AccountRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewAccountRepository(dbtx)
		},
		repoargs.RiskRuleRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewRiskRuleRepository(dbtx)
		},
		repoargs.TransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTransactionRepository(dbtx)
		},
		repoargs.CreditCardRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCreditCardRepository(dbtx)
		},
	}

	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
