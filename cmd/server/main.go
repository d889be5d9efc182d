// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/harideal/harideal/internal/auth"
	"github.com/harideal/harideal/internal/cache"
	"github.com/harideal/harideal/internal/database"
	"github.com/harideal/harideal/internal/handlers"
	"github.com/harideal/harideal/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// The action queue is optional; games run fine without the historian.
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("Redis unavailable, game action history disabled: %v", err)
	}

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	srv := handlers.NewGameServer()

	// room websocket: create/join/play all happen over this socket
	mux.Handle("/room/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, srv),
	)))

	// room endpoints
	mux.Handle("/room/list", middleware.LogMiddleware(logger)(http.HandlerFunc(
		srv.RoomListHandler,
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
