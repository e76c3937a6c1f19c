package main

import (
	"context"
	"net/http"
	"time"

	"mlb-streak-go/config"
	"mlb-streak-go/database"
	"mlb-streak-go/handlers"
	"mlb-streak-go/logging"
	"mlb-streak-go/middleware"
	"mlb-streak-go/services"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})

	loc := cfg.ReferenceLocation()

	// Repositories: Mongo when reachable, in-memory otherwise so the app
	// still serves demo traffic without a database.
	var contestRepo services.ContestRepository
	var profileRepo services.ProfileRepository

	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	})
	if err != nil {
		logging.Warnf("Database connection failed: %v", err)
		logging.Warn("Continuing with in-memory repositories")
		contestRepo = services.NewMemoryContestRepository()
		profileRepo = services.NewMemoryProfileRepository()
	} else {
		defer db.Close()
		if err := db.TestConnection(); err != nil {
			logging.Warnf("Database ping failed: %v", err)
		}
		contestRepo = database.NewMongoContestRepository(db)
		profileRepo = database.NewMongoProfileRepository(db)
	}

	// Provider client for odds and scores
	oddsService := services.NewOddsAPIService(services.OddsAPIConfig{
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		Sport:      cfg.Provider.Sport,
		Regions:    cfg.Provider.Regions,
		Markets:    cfg.Provider.Markets,
		Bookmakers: cfg.Provider.Bookmakers,
		Timeout:    cfg.Provider.Timeout,
	})

	openHour, openMinute, err := config.ParseClock(cfg.Game.OpenTime)
	if err != nil {
		logging.Fatalf("Invalid pick open time: %v", err)
	}
	window := services.NewPickWindow(cfg.Game.LockMargin, openHour, openMinute, loc)

	pickService := services.NewPickService(profileRepo, contestRepo, window)
	authService := services.NewAuthService(profileRepo, cfg.Auth.JWTSecret)
	ingestService := services.NewContestIngestService(oddsService, contestRepo, loc)
	reconciler := services.NewStreakReconciler(oddsService, contestRepo, profileRepo, cfg.Game.LookbackDays)
	statsService := services.NewStatsService(cfg.Provider.StatsBaseURL, cfg.Provider.Timeout)

	emailService := services.NewEmailService(services.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
	})
	announceService := services.NewAnnounceService(oddsService, contestRepo, emailService, cfg.Email.Recipients, loc)
	if !cfg.IsEmailConfigured() {
		logging.Warn("Announcement mailer not fully configured, slate emails will be skipped")
	}

	if cfg.Jobs.Enabled {
		scheduler := startDailyJobs(cfg, loc, ingestService, announceService, reconciler)
		if scheduler != nil {
			defer scheduler.Shutdown()
		}
	} else {
		logging.Info("Daily jobs disabled")
	}

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(pickService, authService)
	pickHandler := handlers.NewPickHandler(pickService)
	contestHandler := handlers.NewContestHandler(contestRepo, loc)
	statsHandler := handlers.NewStatsHandler(statsService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/contests/today", contestHandler.Today).Methods("GET")
	api.HandleFunc("/leaderboard", pickHandler.Leaderboard).Methods("GET")
	api.HandleFunc("/profile/{user}", pickHandler.GetProfile).Methods("GET")
	api.HandleFunc("/stats", statsHandler.PlayerProps).Methods("GET")
	api.HandleFunc("/stats/props", statsHandler.Props).Methods("GET")
	api.Handle("/pick", authMiddleware.RequireAuth(http.HandlerFunc(pickHandler.SetPick))).Methods("POST")
	api.Handle("/reset", authMiddleware.RequireAuth(http.HandlerFunc(pickHandler.ClearPick))).Methods("POST")

	addr := cfg.GetServerAddress()
	logging.Infof("Server starting on %s", addr)
	logging.Fatal(http.ListenAndServe(addr, r))
}

// startDailyJobs wires the ingest, announce and reconcile tasks onto the
// daily scheduler. Job failures are logged, never fatal.
func startDailyJobs(cfg *config.Config, loc *time.Location, ingest *services.ContestIngestService, announce *services.AnnounceService, reconciler *services.StreakReconciler) *services.DailyScheduler {
	scheduler, err := services.NewDailyScheduler(loc)
	if err != nil {
		logging.Errorf("Failed to create scheduler: %v", err)
		return nil
	}

	jobCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), 2*time.Minute)
	}

	jobs := []struct {
		name  string
		clock string
		task  func()
	}{
		{"ingest-contests", cfg.Jobs.IngestTime, func() {
			ctx, cancel := jobCtx()
			defer cancel()
			if count, err := ingest.IngestToday(ctx); err != nil {
				logging.Errorf("Contest ingest failed: %v", err)
			} else {
				logging.Infof("Ingested %d contests", count)
			}
		}},
		{"announce-slate", cfg.Jobs.AnnounceTime, func() {
			ctx, cancel := jobCtx()
			defer cancel()
			if err := announce.AnnounceToday(ctx); err != nil {
				logging.Errorf("Slate announcement failed: %v", err)
			}
		}},
		{"reconcile-streaks", cfg.Jobs.ReconcileTime, func() {
			ctx, cancel := jobCtx()
			defer cancel()
			if stats, err := reconciler.Run(ctx); err != nil {
				logging.Errorf("Streak reconciliation failed: %v", err)
			} else {
				logging.Infof("Reconciliation done: %d resolved, %d settled, %d voided, %d skipped",
					stats.Resolved, stats.Settled, stats.Voided, stats.Skipped)
			}
		}},
	}

	for _, job := range jobs {
		if err := scheduler.AddDailyJob(job.name, job.clock, job.task); err != nil {
			logging.Errorf("Failed to schedule %s: %v", job.name, err)
		}
	}

	scheduler.Start()
	return scheduler
}
