package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ai-studio-server/modules/auth"
	"ai-studio-server/modules/catalog"
	"ai-studio-server/modules/cleanup"
	"ai-studio-server/modules/common/config"
	"ai-studio-server/modules/common/database"
	"ai-studio-server/modules/common/gemini"
	"ai-studio-server/modules/common/redisstore"
	"ai-studio-server/modules/common/storage"
	"ai-studio-server/modules/dashboard"
	generateimage "ai-studio-server/modules/generate-image"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ai-studio-server",
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	db := database.NewClient()
	if db == nil {
		log.Fatal("❌ Failed to initialize database client")
	}

	blobs := storage.NewClient()

	geminiClient, err := gemini.NewClient(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini client: %v", err)
	}

	rdb := redisstore.Connect(cfg)
	if rdb == nil {
		log.Fatal("❌ Failed to connect to Redis")
	}

	// services
	generateService := generateimage.NewService(generateimage.Deps{
		Catalog:        db,
		Log:            db,
		Blobs:          blobs,
		Generator:      geminiClient,
		RetentionHours: cfg.ImageRetentionHours,
	})
	generateHandler := generateimage.NewHandler(generateService)

	authService := auth.NewService(auth.Deps{
		Users:            db,
		OTP:              redisstore.NewOTPStore(rdb),
		Messenger:        auth.LogMessenger{},
		JWTSecret:        cfg.JWTSecret,
		JWTRefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:        time.Duration(cfg.JWTExpiresMinutes) * time.Minute,
		RefreshTTL:       time.Duration(cfg.JWTRefreshExpiresHours) * time.Hour,
		OTPTTL:           time.Duration(cfg.OTPTTLMinutes) * time.Minute,
		OTPSendLimit:     int64(cfg.OTPSendLimit),
		OTPSendWindow:    time.Duration(cfg.OTPSendWindowMinutes) * time.Minute,
	})
	authHandler := auth.NewHandler(authService)

	catalogHandler := catalog.NewHandler(catalog.NewService(db, blobs))
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(db))

	// expiry sweep
	sweeper := cleanup.NewSweeper(db, blobs)
	sweeper.Start(ctx, time.Duration(cfg.CleanupIntervalMinutes)*time.Minute)

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	// webapp
	r.HandleFunc("/webapp/generate-image", generateHandler.GenerateImage).Methods("POST")
	r.HandleFunc("/webapp/signup/send-otp", authHandler.SendOTP).Methods("POST")
	r.HandleFunc("/webapp/signup/verify-otp", authHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/webapp/signup/complete", authHandler.CompleteRegistration).Methods("POST")
	r.HandleFunc("/webapp/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/webapp/refresh-token", authHandler.Refresh).Methods("POST")

	// admin
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(authService.RequireAdmin)
	admin.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET")
	admin.HandleFunc("/dashboard/live", dashboardHandler.Live)
	admin.HandleFunc("/catalog/{collection}", catalogHandler.List).Methods("GET")
	admin.HandleFunc("/catalog/{collection}", catalogHandler.Create).Methods("POST")
	admin.HandleFunc("/catalog/{collection}/{id}", catalogHandler.Get).Methods("GET")
	admin.HandleFunc("/catalog/{collection}/{id}", catalogHandler.Update).Methods("PUT")
	admin.HandleFunc("/catalog/{collection}/{id}", catalogHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/catalog/{collection}/{id}/image", catalogHandler.UploadImage).Methods("POST")

	log.Printf("🚀 AI Studio Server starting on port %s", cfg.Port)
	log.Printf("🎨 Generate: http://localhost:%s/webapp/generate-image", cfg.Port)
	log.Printf("📊 Dashboard: http://localhost:%s/admin/dashboard/stats", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
