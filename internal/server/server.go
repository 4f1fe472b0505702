// Package server wires the gin engine, middleware chain and route table.
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/MSMelok/FlixHiringManagement/internal/auth"
	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/notify"
)

// MyServer holds the shared dependencies every route handler draws from
type MyServer struct {
	DB        *database.DBinstanceStruct
	Blacklist auth.JwtBlacklistStore
	Notifier  *notify.StageNotifier
}

// NewServer constructs the HTTP server with the main database connection
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	s := &MyServer{
		DB:        db,
		Blacklist: auth.NewInMemoryBlacklistStore(),
		Notifier:  notify.NewStageNotifier(notify.NewSMTPSenderFromEnv()),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
