package main

import (
	"github.com/sirupsen/logrus"

	"github.com/coverstar/backend/internal/server"
)

func main() {
	srv := server.NewServer()
	if err := srv.ListenAndServe(); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
