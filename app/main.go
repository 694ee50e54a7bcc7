package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/systemink/api/internal/repository"
	mysqlRepo "github.com/systemink/api/internal/repository/mysql"
	myRedisCache "github.com/systemink/api/internal/repository/redis"
	"github.com/systemink/api/internal/workers"

	"github.com/systemink/api/internal/rest"
	"github.com/systemink/api/internal/rest/middleware"
	"github.com/systemink/api/internal/rest/request"
	"github.com/systemink/api/internal/usecase/auth"
	"github.com/systemink/api/internal/usecase/comment"
	"github.com/systemink/api/internal/usecase/feed"
	"github.com/systemink/api/internal/usecase/post"
	"github.com/systemink/api/internal/usecase/tag"
	"github.com/systemink/api/internal/usecase/upload"
	"github.com/systemink/api/internal/usecase/user"
)

const (
	defaultTimeout       = 30
	defaultAddress       = ":9090"
	defaultCacheDB       = 0
	defaultSiteURL       = "http://localhost:9090"
	defaultSiteTitle     = "SystemInk"
	defaultSiteDesc      = "A multi-author blogging platform"
	defaultUploadDir     = "./uploads"
	defaultMaxUploadMB   = 10
	defaultBloomBitSize  = 10000000
	dbMaxRetry           = 10
	dbRetryIntervalSec   = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, relying on environment")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			var sqlDB *sql.DB
			sqlDB, err = db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the cache connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to cache", err)
		return
	}

	// prepare gin
	request.RegisterValidators()
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	tagRepo := mysqlRepo.NewTagRepository(db)
	sessionRepo := mysqlRepo.NewSessionRepository(db)

	// Post相关的三层架构
	// 1. DB层
	postDBRepo := mysqlRepo.NewPostRepository(db)
	// 2. Cache层
	postCache := myRedisCache.NewPostCache(client)
	bloomBitSizeStr := os.Getenv("BLOOM_FILTER_SIZE")
	bloomBitSize, err := strconv.ParseUint(bloomBitSizeStr, 10, 64)
	if err != nil {
		log.Println("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedisCache.NewRedisBloomRepo(client, bloomBitSize)
	// 3. Repository协调层
	postRepo := repository.NewPostRepository(postDBRepo, postCache, userRepo, bloomRepo)

	viewTracker := myRedisCache.NewViewTracker(client)

	// Start workers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	viewsSyncer := workers.NewSyncViewsWorker(postDBRepo, viewTracker)
	go viewsSyncer.Start(ctx)

	publishSweeper := workers.NewPublishScheduledWorker(postDBRepo)
	go publishSweeper.Start(ctx)

	// Build service layer
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	siteURL := getenvDefault("SITE_URL", defaultSiteURL)
	siteTitle := getenvDefault("SITE_TITLE", defaultSiteTitle)
	siteDesc := getenvDefault("SITE_DESCRIPTION", defaultSiteDesc)
	uploadDir := getenvDefault("UPLOAD_DIR", defaultUploadDir)
	maxUploadMB, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_MB"), 10, 64)
	if err != nil || maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}
	accessTTLMin, err := strconv.ParseInt(os.Getenv("ACCESS_TOKEN_TTL_MIN"), 10, 64)
	if err != nil || accessTTLMin <= 0 {
		accessTTLMin = 0 // NewService falls back to its default
	}

	postSvc := post.NewService(postRepo, tagRepo, viewTracker)
	commentSvc := comment.NewService(commentRepo, postRepo, userRepo)
	authSvc := auth.NewService(userRepo, sessionRepo, jwtSecret, time.Duration(accessTTLMin)*time.Minute)
	userSvc := user.NewService(userRepo)
	tagSvc := tag.NewService(tagRepo)
	feedSvc := feed.NewService(postRepo, tagRepo, userRepo, siteURL, siteTitle, siteDesc)
	uploadSvc := upload.NewService(uploadDir, siteURL, maxUploadMB<<20)

	postHandler := rest.NewPostHandler(postSvc)
	commentHandler := rest.NewCommentHandler(commentSvc)
	authHandler := rest.NewAuthHandler(authSvc)
	userHandler := rest.NewUserHandler(userSvc)
	tagHandler := rest.NewTagHandler(tagSvc)
	feedHandler := rest.NewFeedHandler(feedSvc)
	uploadHandler := rest.NewUploadHandler(uploadSvc)

	authRequired := middleware.AuthMiddleware(jwtSecret)
	authOptional := middleware.OptionalAuth(jwtSecret)

	// Prepare bloom filter
	if err := postRepo.WarmSlugFilter(ctx); err != nil {
		log.Printf("failed to warm slug bloom filter: %v\n", err)
		return
	}

	// Register routes
	route.POST("/auth/signup", authHandler.Signup)
	route.POST("/auth/login", authHandler.Login)
	route.POST("/auth/refresh", authHandler.Refresh)
	route.POST("/auth/forgot", authHandler.ForgotPassword)
	route.POST("/auth/reset", authHandler.ResetPassword)

	route.GET("/posts", postHandler.Fetch)
	route.GET("/posts/featured", postHandler.FetchFeatured)
	route.GET("/posts/trending", postHandler.FetchTrending)
	route.GET("/posts/search", postHandler.Search)
	route.GET("/posts/author/:username", postHandler.FetchByAuthor)
	route.GET("/posts/slug/:slug", postHandler.GetBySlug)
	route.GET("/posts/slug/:slug/related", postHandler.FetchRelated)
	route.POST("/posts/:id/view", postHandler.RecordView)
	route.GET("/posts/:id/comments", authOptional, commentHandler.FetchTrees)

	route.GET("/users/authors", authOptional, userHandler.FetchAuthors)
	route.GET("/users/:username", authOptional, userHandler.GetProfile)

	route.GET("/tags", tagHandler.FetchAll)
	route.GET("/tags/:slug", tagHandler.GetBySlug)

	route.GET("/rss.xml", feedHandler.RSS)
	route.GET("/sitemap.xml", feedHandler.Sitemap)
	route.GET("/robots.txt", feedHandler.Robots)
	route.Static("/uploads", uploadDir)

	authorized := route.Group("/")
	authorized.Use(authRequired)
	{
		authorized.POST("/auth/logout", authHandler.Logout)
		authorized.GET("/auth/me", authHandler.Me)

		authorized.GET("/posts/my", postHandler.FetchMine)
		authorized.GET("/posts/:id", postHandler.GetByID)
		authorized.POST("/posts", postHandler.Store)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.POST("/posts/:id/publish", postHandler.Publish)
		authorized.POST("/posts/:id/unpublish", postHandler.Unpublish)
		authorized.DELETE("/posts/:id", postHandler.Delete)

		authorized.POST("/posts/:id/comments", commentHandler.Create)
		authorized.DELETE("/posts/:id/comments/:commentId", commentHandler.Delete)
		authorized.POST("/posts/:id/comments/:commentId/like", commentHandler.ToggleLike)

		authorized.POST("/users/:username/follow", userHandler.ToggleFollow)
		authorized.PUT("/users/me", userHandler.UpdateMe)

		authorized.POST("/uploads", uploadHandler.Store)
	}

	admin := route.Group("/")
	admin.Use(authRequired, middleware.RequireRole("ADMIN"))
	{
		admin.POST("/posts/:id/comments/:commentId/moderate", commentHandler.Moderate)
		// /users/:username already claims the param slot, so account
		// management lives under /admin
		admin.GET("/admin/users", userHandler.FetchAll)
		admin.PUT("/admin/users/:id/role", userHandler.UpdateRole)
		admin.DELETE("/admin/users/:id", userHandler.Delete)
		admin.POST("/tags", tagHandler.Store)
		admin.DELETE("/tags/:slug", tagHandler.Delete)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for workers to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
