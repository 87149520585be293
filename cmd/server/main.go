// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"village-go/internal/config"
	"village-go/internal/handler"
	"village-go/internal/middleware"
	"village-go/internal/model"
	"village-go/internal/repository"
	"village-go/internal/service"
	"village-go/pkg/database"
	"village-go/pkg/llm"
	"village-go/pkg/log"
	"village-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	database.InitPostgres(cfg.Database.Postgres.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)

	// 自动迁移数据表结构
	if err := database.DB.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.UserFavorite{},
		&model.DiaryEntry{},
		&model.Resource{},
	); err != nil {
		log.Fatal("数据表自动迁移失败", err)
	}

	// 4. 初始化 Repository
	userRepository := repository.NewUserRepository(database.DB)
	postRepository := repository.NewPostRepository(database.DB)
	favoriteRepository := repository.NewFavoriteRepository(database.DB)
	diaryRepository := repository.NewDiaryRepository(database.DB)
	resourceRepository := repository.NewResourceRepository(database.DB)
	sessionRepository := repository.NewSessionRepository(database.RDB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	llmClient := llm.NewClient(cfg.Chat)
	userService := service.NewUserService(userRepository, jwtManager)
	chatService := service.NewChatService(llmClient, cfg.Chat)
	sessionService := service.NewSessionService(sessionRepository, cfg.Session)
	storyService := service.NewStoryService(postRepository, favoriteRepository)
	diaryService := service.NewDiaryService(diaryRepository)
	resourceService := service.NewResourceService(resourceRepository)

	// 6. 播种默认支持资源目录（幂等）
	if err := resourceService.Seed(); err != nil {
		log.Error("播种默认支持资源失败", err)
	}

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(userService).RefreshToken)
		}

		users := apiV1.Group("/users")
		{
			// 无需认证的路由 (公开访问)
			users.POST("/register", handler.NewUserHandler(userService).Register)
			users.POST("/login", handler.NewUserHandler(userService).Login)

			// 需要认证的路由 (仅限登录用户访问)
			authed := users.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.GET("/me", handler.NewUserHandler(userService).GetProfile)
				authed.PUT("/profile", handler.NewUserHandler(userService).UpdateProfile)
			}
		}

		// Chat 路由：匿名可用，访客无需登录即可倾诉
		apiV1.POST("/chat", handler.NewChatHandler(chatService).Chat)

		// Session 路由组：会话历史按用户隔离，需要认证
		sessions := apiV1.Group("/sessions")
		sessions.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			sessionHandler := handler.NewSessionHandler(sessionService)
			sessions.GET("", sessionHandler.ListSessions)
			sessions.PUT("/:id", sessionHandler.SaveSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
			sessions.DELETE("", sessionHandler.ClearSessions)
		}

		// Story 路由组：读公开，写需要认证
		storyHandler := handler.NewStoryHandler(storyService)
		authRequired := middleware.AuthMiddleware(jwtManager, userService)
		stories := apiV1.Group("/stories")
		{
			stories.GET("", storyHandler.ListStories)
			stories.GET("/:id", storyHandler.GetStory)
			stories.POST("", authRequired, storyHandler.CreateStory)
			stories.POST("/:id/comments", authRequired, storyHandler.AddComment)
			stories.POST("/:id/favorite", authRequired, storyHandler.ToggleFavorite)
		}

		// Comment 路由组：编辑和删除自己的评论
		comments := apiV1.Group("/comments")
		comments.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			comments.PUT("/:id", storyHandler.UpdateComment)
			comments.DELETE("/:id", storyHandler.DeleteComment)
		}

		// Favorite 路由：当前用户的收藏列表
		favorites := apiV1.Group("/favorites")
		favorites.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			favorites.GET("", storyHandler.ListFavorites)
		}

		// Diary 路由组：私人日记，需要认证
		diary := apiV1.Group("/diary")
		diary.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			diaryHandler := handler.NewDiaryHandler(diaryService)
			diary.POST("", diaryHandler.CreateEntry)
			diary.GET("", diaryHandler.ListEntries)
			diary.GET("/:id", diaryHandler.GetEntry)
			diary.PUT("/:id", diaryHandler.UpdateEntry)
			diary.DELETE("/:id", diaryHandler.DeleteEntry)
		}

		// Resource 路由：支持资源目录，公开访问
		apiV1.GET("/resources", handler.NewResourceHandler(resourceService).ListResources)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
