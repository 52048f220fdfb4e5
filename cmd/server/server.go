package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/thereayou/parley/internal/database"
	"github.com/thereayou/parley/internal/handlers"
	"github.com/thereayou/parley/internal/middleware"
	"github.com/thereayou/parley/internal/services"
	"github.com/thereayou/parley/internal/session"
	ws "github.com/thereayou/parley/internal/websocket"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Hub    *ws.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	db := &database.Database{}
	if err := db.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	// The in-memory session table only works for a single process; with
	// REDIS_URL set, sessions live in Redis and can be shared.
	var sessions session.Registry = session.NewMemoryRegistry()
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis connect failed: %v", err)
		}
		sessions = session.NewRedisRegistry(rdb)
	}

	hub := ws.NewHub()

	identity := services.NewIdentityService(db)
	messages := services.NewMessageService(db)
	rooms := services.NewRoomService(db, messages)

	gateway := handlers.NewGateway(db, identity, rooms, messages, sessions, hub)

	origin := os.Getenv("CLIENT_ORIGIN")
	wsHandler := handlers.NewWebSocketHandler(hub, gateway, origin)
	roomHandler := handlers.NewRoomHandler(rooms, hub)

	router := gin.Default()
	router.Use(middleware.CORS(origin))
	APIEndpoints(router, roomHandler, wsHandler)

	return &Server{
		Router: router,
		DB:     db,
		Hub:    hub,
	}
}

func (s *Server) Run() {
	go s.Hub.Run()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
