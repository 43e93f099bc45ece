package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"

	"quizdeck/internal/auth"
	"quizdeck/internal/config"
	"quizdeck/internal/httpapi"
	"quizdeck/internal/opentdb"
	"quizdeck/internal/quiz"
	"quizdeck/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	if env := os.Getenv("ADDR"); env != "" {
		cfg.Server.Addr = env
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	authStore, err := auth.NewSQLiteStore(db)
	if err != nil {
		log.Fatalf("init auth store: %v", err)
	}
	quizStore, err := quiz.NewSQLiteStore(db)
	if err != nil {
		log.Fatalf("init quiz store: %v", err)
	}

	authService := auth.NewService(authStore, authStore, authStore, auth.LogNotifier{}, auth.ServiceConfig{
		SessionTTL:    cfg.Auth.SessionTTL,
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
		ResetBaseURL:  cfg.Server.BaseURL,
	})
	trivia := opentdb.NewClient("", nil)
	quizService := quiz.NewService(quizStore, quizStore, trivia.FetchQuestions)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewRouter(authService, quizService),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	log.Printf("quizdeck-server listening on %s (db=%s)", cfg.Server.Addr, cfg.Database.Path)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
