package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"poke_arena/internal/adapters"
	"poke_arena/internal/bootstrap"
	arenaDelivery "poke_arena/internal/delivery/arena"
	authDelivery "poke_arena/internal/delivery/auth"
	favoritesDelivery "poke_arena/internal/delivery/favorites"
	usersDelivery "poke_arena/internal/delivery/users"
	ownMiddleware "poke_arena/internal/middleware"
	repo "poke_arena/internal/repository"
	authUC "poke_arena/internal/usecase/auth"
	battleUC "poke_arena/internal/usecase/battle"
	favUC "poke_arena/internal/usecase/favorites"
	leaderboardUC "poke_arena/internal/usecase/leaderboard"
	presenceUC "poke_arena/internal/usecase/presence"
)

type mainDeliveryHandler struct {
	auth      *authDelivery.AuthHandler
	favorites *favoritesDelivery.FavoritesHandler
	arena     *arenaDelivery.ArenaHandler
	users     *usersDelivery.UsersHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	userStorage := repo.NewMongoUserStorage(databaseAdapters.mongoAdapter)
	battleStorage := repo.NewMongoBattleStorage(databaseAdapters.mongoAdapter)
	sessionStorage := repo.NewRedisSessionStorage(databaseAdapters.redisAdapter.GetClient())
	presenceStorage := repo.NewRedisPresenceStorage(databaseAdapters.redisAdapter.GetClient())

	authUsecase := authUC.NewAuthUsecaseHandler(userStorage, sessionStorage)
	favoritesUsecase := favUC.NewFavoritesUsecase(userStorage)
	battleUsecase := battleUC.NewBattleUsecase(userStorage, battleStorage)
	leaderboardUsecase := leaderboardUC.NewLeaderboardUsecase(userStorage, battleStorage)
	presenceUsecase := presenceUC.NewPresenceUsecase(presenceStorage, userStorage)

	// Catch up a reset missed while the process was down.
	if err := battleUsecase.ResetDailyIfDue(ctx); err != nil {
		logger.Error("Failed to run startup daily reset", zap.Error(err))
	}

	scheduler := startDailyResetJob(logger, battleUsecase)
	defer func() { _ = scheduler.Shutdown() }()

	authHandler := authDelivery.NewAuthHandler(authUsecase, logger)
	handlers := &mainDeliveryHandler{
		auth:      authHandler,
		favorites: favoritesDelivery.NewFavoritesHandler(favoritesUsecase, authHandler, logger),
		arena:     arenaDelivery.NewArenaHandler(battleUsecase, leaderboardUsecase, authHandler, logger),
		users:     usersDelivery.NewUsersHandler(presenceUsecase, userStorage, authHandler, logger),
	}

	r := chi.NewRouter()
	handlers.Router(r, cfg.IsLocalCors)

	port := ":" + cfg.ServerPort
	logger.Infof("Server is running on port %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/register", h.auth.Register)
	r.Post("/api/login", h.auth.Login)
	r.Post("/api/logout", h.auth.Logout)
	r.Get("/api/me", h.auth.Me)

	r.Get("/api/favorites", h.favorites.List)
	r.Post("/api/favorites", h.favorites.Add)
	r.Post("/api/favorites/remove", h.favorites.Remove)

	r.Get("/api/battle-limit", h.arena.BattleLimit)
	r.Post("/api/arena/battle", h.arena.Battle)
	r.Post("/api/arena/bot-battle", h.arena.BotBattle)
	r.Get("/api/leaderboard", h.arena.Leaderboard)
	r.Get("/api/all-battles", h.arena.AllBattles)
	r.Get("/api/battle-history", h.arena.BattleHistory)
	r.Post("/api/save-battle", h.arena.SaveBattle)
	r.Get("/api/reset-daily-battles", h.arena.ResetDailyBattles)

	r.Post("/api/online", h.users.Online)
	r.Post("/api/offline", h.users.Offline)
	r.Get("/api/online-users", h.users.OnlineUsers)
	r.Get("/api/cleanup", h.users.Cleanup)
	r.Get("/api/users", h.users.ListUsers)
	r.Get("/api/users/{id}", h.users.GetUser)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

// startDailyResetJob schedules the battle counter sweep at every local
// midnight. The durable reset marker keeps restarts around midnight from
// double-resetting or skipping a day.
func startDailyResetJob(log *zap.SugaredLogger, battleUsecase *battleUC.BattleUsecase) gocron.Scheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(func() {
			n, err := battleUsecase.ResetDaily(context.Background())
			if err != nil {
				log.Error("Daily battle reset failed", zap.Error(err))
				return
			}
			log.Infof("Daily battles reset at midnight, %d users cleared", n)
		}),
	)
	if err != nil {
		log.Fatal("Failed to schedule daily reset", zap.Error(err))
	}

	scheduler.Start()
	return scheduler
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
	time.Sleep(1 * time.Second) // give connections time to close
	os.Exit(0)
}
