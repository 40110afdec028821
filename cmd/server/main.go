package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"taskboard-api/pkg/api"
	"taskboard-api/pkg/cache"
	"taskboard-api/pkg/orm"
	"taskboard-api/pkg/ratelimit"
	"taskboard-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	loadEnvVars()
	utils.InitLogger()

	port := utils.LoadDotEnvOr("SERVER_PORT", "8080")
	mongoURI := utils.LoadDotEnv("MONGODB_URI")
	mongoDB := utils.LoadDotEnvOr("MONGODB_DB", "taskboard")

	connHandler, err := orm.NewConnHandler(context.Background(), mongoURI, mongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up MongoDB client")
	}
	taskORM := orm.NewTaskORM(connHandler.Database())

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := taskORM.EnsureIndexes(indexCtx); err != nil {
		log.Warn().Err(err).Msg("Could not ensure task indexes, continuing")
	}
	cancelIndex()

	var taskCache *cache.Cache
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		taskCache = cache.NewCache(redisHost, utils.LoadDotEnvOr("REDIS_PORT", "6379"))
	}

	limiter := ratelimit.NewLimiter(
		utils.LoadDotEnvMinutes("RATE_LIMIT_WINDOW_MINUTES", ratelimit.DefaultWindow),
		utils.LoadDotEnvInt("RATE_LIMIT_MAX_REQUESTS", ratelimit.DefaultMax),
	)

	env := api.NewEnv(taskORM, taskCache, utils.LoadDotEnvBool("SAMPLE_DATA_FALLBACK", false))

	router := gin.Default()

	// read allowedOrigins from environment variable which is a comma separated string
	allowedOrigins := strings.Split(utils.LoadDotEnvOr("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	log.Info().Msgf("Allowed origins: %v", allowedOrigins)
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
		MaxAge:           24 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	api.TaskRoutes(router, env, limiter)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, this is taskboard-api",
		})
	})

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Msgf("Received signal: %s. Shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server Shutdown:")
	}

	taskCache.Shutdown()
	if err := connHandler.OnShutdown(); err != nil {
		log.Error().Err(err).Msg("Error during MongoDB shutdown")
	}
	log.Info().Msg("Server exiting")
}

func loadEnvVars() {
	// grab latest env vars from .env when present
	if err := godotenv.Overload(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}
}
