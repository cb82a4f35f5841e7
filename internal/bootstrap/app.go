// Package bootstrap loads configuration and wires every component of the
// server process: storage, queues, services, the signaling hub, HTTP routes
// and graceful shutdown.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/harshrajsoni/campusconnect/internal/handler/http"
	wsHandler "github.com/harshrajsoni/campusconnect/internal/handler/websocket"
	"github.com/harshrajsoni/campusconnect/internal/hub"
	gormpersistence "github.com/harshrajsoni/campusconnect/internal/infra/persistence/gorm"
	"github.com/harshrajsoni/campusconnect/internal/infra/setup"
	"github.com/harshrajsoni/campusconnect/internal/middleware"
	"github.com/harshrajsoni/campusconnect/internal/registry"
	"github.com/harshrajsoni/campusconnect/internal/service"
	"github.com/harshrajsoni/campusconnect/internal/worker"
)

// Config holds everything read from environment variables at boot.
type Config struct {
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	ServerPort      string
	LogLevel        string
	RateLimitMax    int
	RateLimitWindow time.Duration
	JWTExpiryHours  int
	AppEnv          string
	ICEServers      []httpHandler.ICEServer
}

// LoadConfig reads configuration from the environment, with a .env file as a
// convenience for development. REDIS_ADDR and JWT_SECRET are mandatory.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          os.Getenv("DB_PORT"),
		DBName:          os.Getenv("DB_NAME"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ServerPort:      os.Getenv("SERVER_PORT"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		AppEnv:          os.Getenv("APP_ENV"),
		RateLimitMax:    100,
		RateLimitWindow: 1 * time.Second,
		JWTExpiryHours:  24,
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	cfg.ICEServers = loadICEServers()
	return cfg, nil
}

// loadICEServers builds the ICE pool from STUN_URLS (comma separated) and an
// optional TURN_URL with credentials. Empty config falls back to the handler's
// public STUN default.
func loadICEServers() []httpHandler.ICEServer {
	var servers []httpHandler.ICEServer

	if stun := os.Getenv("STUN_URLS"); stun != "" {
		var urls []string
		for _, u := range strings.Split(stun, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		if len(urls) > 0 {
			servers = append(servers, httpHandler.ICEServer{URLs: urls})
		}
	}
	if turn := os.Getenv("TURN_URL"); turn != "" {
		servers = append(servers, httpHandler.ICEServer{
			URLs:       []string{turn},
			Username:   os.Getenv("TURN_USERNAME"),
			Credential: os.Getenv("TURN_CREDENTIAL"),
		})
	}
	return servers
}

// App bundles the long-lived components needed for Start and Shutdown.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	TaskServer  *worker.Server
	Hub         *hub.Hub
	HTTPServer  *http.Server
}

// NewApp initializes configuration, infrastructure, repositories, services,
// handlers and routes, returning an App ready to Start.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.StandardLogger()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded")

	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	callRepo := gormpersistence.NewGormCallRepository(db)
	accountRepo := gormpersistence.NewGormAccountRepository(db)
	convRepo := gormpersistence.NewGormConversationRepository(db)

	authService, err := service.NewAuthService(accountRepo, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	callService := service.NewCallService(callRepo, asynqClient)
	convService := service.NewConversationService(convRepo)
	directoryService := service.NewDirectoryService(accountRepo)

	hubInstance := hub.NewHub(registry.New(), asynqClient)

	authHandler := httpHandler.NewAuthHandler(authService)
	callHandler := httpHandler.NewCallHandler(callService)
	convHandler := httpHandler.NewConversationHandler(convService)
	directoryHandler := httpHandler.NewDirectoryHandler(directoryService)
	iceHandler := httpHandler.NewICEHandler(cfg.ICEServers)
	signalingHandler := wsHandler.NewHandler(hubInstance)

	taskHandler := worker.NewTaskHandler(callRepo, callService, convService)
	taskServer := worker.NewServer(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, taskHandler)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow))

	auth := middleware.Auth(cfg.JWTSecret)

	api := router.Group("/api")
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/student/signup", authHandler.StudentSignup)
		authRoutes.POST("/recruiter/signup", authHandler.RecruiterSignup)
		authRoutes.POST("/college/signup", authHandler.CollegeSignup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}
	callRoutes := api.Group("/calls").Use(auth)
	{
		callRoutes.POST("/request", callHandler.Create)
		callRoutes.POST("/accept", callHandler.Accept)
		callRoutes.POST("/schedule", callHandler.Schedule)
		callRoutes.POST("/join", callHandler.Join)
		callRoutes.POST("/complete", callHandler.Complete)
		callRoutes.GET("/college-requests", callHandler.CollegeRequests)
		callRoutes.GET("/recruiter-requests", callHandler.RecruiterRequests)
		callRoutes.GET("/scheduled-calls", callHandler.ScheduledCalls)
	}
	convRoutes := api.Group("/conversations").Use(auth)
	{
		convRoutes.POST("", convHandler.Create)
		convRoutes.GET("", convHandler.List)
		convRoutes.POST("/:id/messages", convHandler.Send)
		convRoutes.GET("/:id/messages", convHandler.Messages)
	}
	api.GET("/students/:collegeName", auth, directoryHandler.StudentsByCollege)
	api.GET("/ice-servers", auth, iceHandler.Servers)

	router.GET("/ws", auth, signalingHandler.Serve)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		AsynqClient: asynqClient,
		TaskServer:  taskServer,
		Hub:         hubInstance,
		HTTPServer:  httpServer,
	}, nil
}

// Start launches the hub, the task server and the HTTP listener.
func (a *App) Start() {
	go a.Hub.Run()
	a.Log.Info("Signaling hub started")

	a.TaskServer.Start()
	a.Log.Info("Task server started")

	go func() {
		a.Log.Infof("HTTP server listening on %s", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
}

// Shutdown stops the components in reverse dependency order.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down...")

	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.TaskServer != nil {
		a.TaskServer.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing redis connection: %v", err)
		}
	}

	a.Log.Info("Shutdown complete")
}

func corsMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("CORS_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware emits one structured log line per request.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry.Error(errorMessage)
		} else if statusCode >= 500 {
			entry.Error("Server error")
		} else if statusCode >= 400 {
			entry.Warn("Client error")
		} else {
			entry.Info("Request handled")
		}
	}
}
