package main

import (
	"log"

	"github.com/MSMelok/FlixHiringManagement/internal/server"
)

// @title Flix Hiring Management API
// @version 1.0
// @description Recruiting pipeline tracker: applicants, stage transitions, scheduling and audit history.
// @BasePath /api/v1
func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("cannot start server: %s", err)
	}
}
