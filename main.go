package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"spyserver/database"
	"spyserver/game"
	"spyserver/handlers"
	"spyserver/sockets"
	"spyserver/sockets/broadcast"
	"spyserver/store"
	"spyserver/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

func main() {
	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	// PostgreSQL and Redis come up concurrently.
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		config, err := database.LoadConfig("config.json")
		if err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
		db, err = database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("failed to initialize PostgreSQL", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		rdb, err = database.InitRedis(logger)
		if err != nil {
			logger.Fatal("failed to initialize Redis", zap.Error(err))
		}
		done <- true
	}()

	<-done
	<-done

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	go utils.CronCleaner(db, logger)

	users := store.NewUserStore(db, logger)
	rooms := store.NewRoomStore(db, logger)
	engine := game.NewEngine(rooms, users, logger)
	hub := broadcast.NewHub()

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "SessionID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/api/register", func(c *gin.Context) {
		handlers.RegisterHandler(c, users, logger)
	})
	router.GET("/api/users", func(c *gin.Context) {
		handlers.UsersHandler(c, users, logger)
	})
	router.GET("/api/rooms", func(c *gin.Context) {
		handlers.RoomsHandler(c, engine, logger)
	})
	router.GET("/api/rooms/:roomID", func(c *gin.Context) {
		handlers.RoomHandler(c, engine, logger)
	})
	router.GET("/ws", func(c *gin.Context) {
		sockets.HandleConnections(c.Request.Context(), c.Writer, c.Request, rdb, logger, engine, users, hub, upgrader)
	})

	router.Run()
}
