package di

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"ns-advisor/api"
	"ns-advisor/api/nightscout"
	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/dao/redis"
	"ns-advisor/db"
	"ns-advisor/server"
	"ns-advisor/server/handlers"
	services "ns-advisor/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	RedisClient             db.RedisClient
	RedisPreferencesDao     *redis.RedisPreferencesDAO
	RedisSummaryDao         *redis.RedisSummaryDAO
	NightscoutAPI           nightscout.NightscoutAPI
	SettingsService         *services.SettingsService
	SummaryService          *services.SummaryService
	SummaryRefresherService *services.SummaryRefresherService
	NightscoutHandler       *handlers.NightscoutHandler
	SummaryHandler          *handlers.SummaryHandler
	SettingsHandler         *handlers.SettingsHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	AdvisorHttpServer       *server.AdvisorHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	applog.Infof("initializing container - env: %s", cfg.Env)
	ctx := context.Background()

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	var redisClient db.RedisClient
	var nightscoutAPI nightscout.NightscoutAPI
	if !cfg.IsProd() {
		applog.Infof("Using mock redis and mock nightscout api")
		redisClient = db.NewMockRedisClient(ctx)
		nightscoutAPI = nightscout.NewNightscoutApiClientMock()
	} else {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisClient = db.NewGoRedisClient(ctx, redisInternalClient)
		if err := redisClient.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		applog.Infof("Using prod nightscout api")
		httpClient := api.NewHTTPClient("", "", config.NIGHTSCOUT_API_SECRET_HEADER)
		nightscoutAPI = nightscout.NewNightscoutApiClient(httpClient)
	}

	redisPreferencesDao := redis.NewRedisPreferencesDAO(redisClient)
	redisSummaryDao := redis.NewRedisSummaryDAO(redisClient)

	settingsService := services.NewSettingsService(
		redisPreferencesDao, nightscoutAPI, cfg.NightscoutURL, cfg.NightscoutAPIToken, cfg.LoopSettingsDir)
	if _, err := settingsService.Refresh(); err != nil {
		return nil, fmt.Errorf("failed to resolve nightscout connection: %w", err)
	}

	summaryService := services.NewSummaryService(nightscoutAPI)
	summaryRefresherService := services.NewSummaryRefresherService(summaryService, redisSummaryDao, loc)

	nightscoutHandler := handlers.NewNightscoutHandler(nightscoutAPI)
	summaryHandler := handlers.NewSummaryHandler(summaryService, summaryRefresherService, loc)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(nightscoutHandler, summaryHandler, settingsHandler, muxRouter)
	advisorHttpServer := server.NewAdvisorHttpServer(router, muxRouter, cfg.HTTPAddr)

	return &Container{
		Config:                  cfg,
		RedisClient:             redisClient,
		RedisPreferencesDao:     redisPreferencesDao,
		RedisSummaryDao:         redisSummaryDao,
		NightscoutAPI:           nightscoutAPI,
		SettingsService:         settingsService,
		SummaryService:          summaryService,
		SummaryRefresherService: summaryRefresherService,
		NightscoutHandler:       nightscoutHandler,
		SummaryHandler:          summaryHandler,
		SettingsHandler:         settingsHandler,
		MuxRouter:               muxRouter,
		Router:                  router,
		AdvisorHttpServer:       advisorHttpServer,
	}, nil
}
