package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/radarobras/radar_api/internal"
	"github.com/radarobras/radar_api/internal/auth"
	"github.com/radarobras/radar_api/internal/comments"
	"github.com/radarobras/radar_api/internal/db"
	"github.com/radarobras/radar_api/internal/geocode"
	"github.com/radarobras/radar_api/internal/httpapi"
	"github.com/radarobras/radar_api/internal/lojas"
	"github.com/radarobras/radar_api/internal/obras"
	"github.com/radarobras/radar_api/internal/ratelimit"
	"github.com/radarobras/radar_api/internal/reports"
	"github.com/radarobras/radar_api/internal/review"
	"github.com/radarobras/radar_api/internal/session"
	"github.com/radarobras/radar_api/internal/storage"
	"github.com/radarobras/radar_api/internal/telemetry"
	"github.com/radarobras/radar_api/internal/users"
	"github.com/redis/go-redis/v9"
)

const serviceName = "radar-api"

func main() {
	_ = godotenv.Load()

	port := internal.Env("APP_PORT", "8080")
	databaseURL := internal.MustEnv("DATABASE_URL")
	redisURL := internal.MustEnv("REDIS_URL")

	ctx := context.Background()

	shutdownTracer := telemetry.InitTracer(serviceName)
	defer shutdownTracer(context.Background())
	shutdownMetrics := telemetry.InitMetrics(serviceName)
	defer shutdownMetrics(context.Background())
	shutdownLogger := telemetry.InitLogger(serviceName)
	defer shutdownLogger(context.Background())
	db.InitTelemetry(serviceName)

	d, err := db.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer d.Close()

	redisOpt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	dbBase := db.NewBase(d.Pool, 3*time.Second)
	usrRepo := users.NewRepository(dbBase)
	lojaRepo := lojas.NewRepository(dbBase)
	obraRepo := obras.NewRepository(dbBase)
	commentRepo := comments.NewRepository(dbBase)

	sessionManager := &session.Manager{
		Store:         session.NewRedisStore(redisClient, internal.Env("SESSION_REDIS_PREFIX", "radar:session:")),
		TTL:           parseDurationEnv("SESSION_TTL", session.DefaultTTL),
		RefreshBefore: parseDurationEnv("SESSION_REFRESH_BEFORE", 24*time.Hour),
		IDBytes:       32,
	}

	cookie := session.CookieConfig{
		Name:     internal.Env("SESSION_COOKIE_NAME", session.DefaultCookieName),
		Path:     internal.Env("SESSION_COOKIE_PATH", "/"),
		Domain:   internal.Env("SESSION_COOKIE_DOMAIN", ""),
		Secure:   parseBoolEnv("SESSION_COOKIE_SECURE", true),
		SameSite: parseSameSiteEnv("SESSION_COOKIE_SAMESITE", http.SameSiteLaxMode),
	}

	loginLimiter := &ratelimit.Limiter{
		Client: redisClient,
		Prefix: "radar:ratelimit:",
		Limit:  parseIntEnv("LOGIN_RATE_LIMIT", 5),
		Window: parseDurationEnv("LOGIN_RATE_WINDOW", time.Minute),
	}

	photoDriver := buildPhotoDriver(ctx)

	geocoder := geocode.NewClient(internal.Env("GEOCODE_REGION", "Santa Maria, RS, Brasil"))
	if base := internal.Env("GEOCODE_BASE_URL", ""); base != "" {
		geocoder.BaseURL = base
	}

	userService := &users.Service{Store: usrRepo}
	lojaService := &lojas.Service{Store: lojaRepo}

	commentHub := comments.NewHub()
	commentService := &comments.Service{
		Store:   commentRepo,
		Authors: usrRepo,
		Hub:     commentHub,
	}

	obraService := &obras.Service{
		Store:    obraRepo,
		Sellers:  usrRepo,
		Geocoder: geocoder,
		Photos:   photoDriver,
		Cache:    obras.NewRedisCache(redisClient, "radar:cache:"),
		CacheTTL: parseDurationEnv("OBRAS_CACHE_TTL", 2*time.Minute),
	}

	reportService := &reports.Service{
		Obras:    obraService,
		Lojas:    lojaService,
		PDF:      reports.NewPDFExporter(),
		Cache:    reports.NewRedisSummaryCache(redisClient, "radar:cache:"),
		CacheTTL: parseDurationEnv("REPORTS_CACHE_TTL", 30*time.Second),
	}

	reviewService := &review.Service{
		Model:      internal.Env("OPENAI_REVIEW_MODEL", ""),
		SourceRoot: internal.Env("REVIEW_SOURCE_ROOT", "."),
	}
	if key := internal.Env("OPENAI_API_KEY", ""); key != "" {
		reviewService.Client = openai.NewClient(key)
	}

	authService := &auth.Service{
		Users:        usrRepo,
		Sessions:     sessionManager,
		LoginLimiter: loginLimiter,
	}

	app := &httpapi.App{
		Health: &httpapi.HealthHandler{DB: d.Pool, Redis: redisClient},
		Auth:   &httpapi.AuthHandler{Service: authService, Cookie: cookie},
		Users:  &httpapi.UsersHandler{Service: userService},
		Lojas:  &httpapi.LojasHandler{Service: lojaService},
		Obras:  &httpapi.ObrasHandler{Service: obraService},
		Comments: &httpapi.CommentsHandler{
			Service:        commentService,
			Hub:            commentHub,
			AllowedOrigins: splitEnv("WS_ALLOWED_ORIGINS"),
		},
		Reports:     &httpapi.ReportsHandler{Service: reportService},
		Review:      &httpapi.ReviewHandler{Service: reviewService},
		Sessions:    sessionManager,
		Cookie:      cookie,
		ServiceName: serviceName,
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("api listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func buildPhotoDriver(ctx context.Context) storage.Driver {
	switch internal.Env("STORAGE_DRIVER", "local") {
	case "s3":
		driver, err := storage.NewS3Driver(ctx, storage.S3Config{
			Bucket:          internal.MustEnv("S3_BUCKET"),
			Region:          internal.Env("S3_REGION", ""),
			AccessKeyID:     internal.Env("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: internal.Env("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        internal.Env("S3_ENDPOINT", ""),
		})
		if err != nil {
			log.Fatalf("s3 storage error: %v", err)
		}
		return driver
	default:
		return storage.NewLocalDriver(
			internal.Env("UPLOADS_PATH", "./uploads"),
			internal.Env("UPLOADS_BASE_URL", "/uploads/"),
		)
	}
}

func splitEnv(key string) []string {
	raw := strings.TrimSpace(internal.Env(key, ""))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(internal.Env(key, ""))
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
	return d
}

func parseIntEnv(key string, def int) int {
	val := strings.TrimSpace(internal.Env(key, ""))
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
	return n
}

func parseBoolEnv(key string, def bool) bool {
	val := strings.TrimSpace(internal.Env(key, ""))
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
	return b
}

func parseSameSiteEnv(key string, def http.SameSite) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(internal.Env(key, ""))) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	case "":
		return def
	default:
		log.Printf("invalid %s, using default", key)
		return def
	}
}
