package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/jobportal/internal/config"
	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/events"
	"github.com/jonathan/jobportal/internal/geo"
	"github.com/jonathan/jobportal/internal/llm"
	"github.com/jonathan/jobportal/internal/locations"
	"github.com/jonathan/jobportal/internal/nearby"
	"github.com/jonathan/jobportal/internal/server/middleware"
	"github.com/jonathan/jobportal/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	db          Store
	cfg         config.Config
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	validator   *validator.Validate
	catalog     *locations.Catalog
	resolver    *nearby.Resolver
	events      events.Publisher
	llmClient   llm.Client
	assistant   *llm.Assistant // nil when the career assistant is disabled
	now         func() time.Time
}

// Dependencies are the collaborators a Server is assembled from. New builds
// them from configuration; tests supply fakes.
type Dependencies struct {
	Store     Store
	Passwords *config.PasswordConfig
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
	Events    events.Publisher   // defaults to a LogPublisher
	LLM       llm.Client         // nil disables the career assistant
	Catalog   *locations.Catalog // defaults to the embedded catalog
	Rand      nearby.RandSource  // source for synthetic map records
	Now       func() time.Time   // defaults to time.Now
}

// New creates a new server instance from configuration
func New(cfg config.Config) (*Server, error) {
	ctx := context.Background()

	// Connect to database
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	var client llm.Client
	if cfg.APIKey != "" {
		llmConfig := llm.DefaultConfig()
		if cfg.ChatModel != "" {
			llmConfig.ChatModel = cfg.ChatModel
		}
		client, err = llm.NewGeminiClient(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
	} else {
		log.Printf("[server] no Gemini API key configured, career assistant disabled")
	}

	rateLimit, err := ratelimit.LoadConfig()
	if err != nil {
		log.Printf("[server] ignoring RATE_LIMIT_RULES: %v", err)
	}

	return NewWithDependencies(cfg, Dependencies{
		Store:     database,
		Passwords: passwordConfig,
		JWT:       jwtConfig,
		RateLimit: rateLimit,
		Events:    events.New(cfg.KafkaBrokers, cfg.KafkaTopic),
		LLM:       client,
	})
}

// NewWithDependencies assembles a server around already-built collaborators.
func NewWithDependencies(cfg config.Config, deps Dependencies) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Passwords == nil || deps.JWT == nil {
		return nil, fmt.Errorf("password and JWT configuration are required")
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		db:        deps.Store,
		cfg:       cfg,
		validator: validator.New(),
		catalog:   deps.Catalog,
		events:    deps.Events,
		llmClient: deps.LLM,
		now:       deps.Now,
	}
	if s.catalog == nil {
		s.catalog = locations.Default()
	}
	if s.events == nil {
		s.events = events.LogPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if deps.LLM != nil {
		s.assistant = llm.NewAssistant(deps.LLM)
	}

	resolver, err := s.newResolver(deps.Rand)
	if err != nil {
		return nil, err
	}
	s.resolver = resolver

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(deps.RateLimit)

	// Initialize authentication services
	s.userService = NewUserService(deps.Store, deps.Passwords)
	s.userService.now = s.now
	s.jwtService = NewJWTService(deps.JWT)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // Career assistant answers can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) newResolver(src nearby.RandSource) (*nearby.Resolver, error) {
	estimator, err := geo.ParseEstimator(s.cfg.DistanceEstimator)
	if err != nil {
		return nil, err
	}
	opts := []nearby.Option{
		nearby.WithEstimator(estimator),
		nearby.WithFallbackSize(s.cfg.FallbackSize),
		nearby.WithClock(s.now),
	}
	if ref, ok := s.cfg.DefaultReference(); ok {
		opts = append(opts, nearby.WithDefaultReference(ref))
	}
	if src != nil {
		opts = append(opts, nearby.WithRand(src))
	}
	return nearby.NewResolver(
		nearby.JobSourceFunc(s.openJobsPayload),
		nearby.TalentSourceFunc(s.talentPayload),
		opts...,
	), nil
}

// routes registers every endpoint on a new mux.
func (s *Server) routes() http.Handler {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	optional := middleware.OptionalAuth(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/test", s.handleDatabaseTest)

	// Accounts
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.Handle("PUT /api/employers/{id}/password", protected(s.handleUpdateEmployerPassword))
	mux.Handle("PUT /api/employees/{id}/password", protected(s.handleUpdateEmployeePassword))

	// Jobs
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/nearby", s.handleNearbyJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.Handle("POST /api/jobs", protected(s.handleCreateJob))
	mux.Handle("DELETE /api/jobs/{id}", protected(s.handleDeleteJob))

	// Applications
	mux.Handle("POST /api/jobs/{id}/apply", protected(s.handleApply))
	mux.Handle("GET /api/applications/{id}", protected(s.handleGetApplication))
	mux.Handle("PUT /api/applications/{id}/status", protected(s.handleUpdateApplicationStatus))

	// Employers
	mux.HandleFunc("GET /api/employers/{id}", s.handleGetEmployer)
	mux.Handle("PUT /api/employers/{id}", protected(s.handleUpdateEmployer))
	mux.HandleFunc("GET /api/employers/{id}/jobs", s.handleListEmployerJobs)
	mux.Handle("GET /api/employers/{id}/applications", protected(s.handleListEmployerApplications))

	// Employees
	mux.HandleFunc("GET /api/employees", s.handleListTalent)
	mux.HandleFunc("GET /api/employees/nearby", s.handleNearbyEmployees)
	mux.Handle("GET /api/employees/{id}", protected(s.handleGetEmployee))
	mux.Handle("PUT /api/employees/{id}", protected(s.handleUpdateEmployee))
	mux.Handle("GET /api/employees/{id}/applications", protected(s.handleListEmployeeApplications))
	mux.Handle("GET /api/employees/{id}/dashboard", protected(s.handleEmployeeDashboard))
	mux.Handle("GET /api/employees/{id}/chat", protected(s.handleChatHistory))
	mux.Handle("POST /api/employees/{id}/chat", protected(s.handleChat))

	// Map
	mux.Handle("GET /api/map/jobs", optional(http.HandlerFunc(s.handleMapJobs)))
	mux.Handle("GET /api/map/talent", optional(http.HandlerFunc(s.handleMapTalent)))

	// Locations
	mux.HandleFunc("GET /api/locations", s.handleListLocations)
	mux.HandleFunc("GET /api/locations/residential", s.handleListResidential)
	mux.HandleFunc("GET /api/locations/business", s.handleListBusiness)
	mux.HandleFunc("GET /api/locations/lookup", s.handleLookupLocation)
	mux.HandleFunc("GET /api/locations/{id}", s.handleGetLocation)

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the rate limiter, event publisher, LLM client and database.
func (s *Server) Close() {
	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			log.Printf("[events] close failed: %v", err)
		}
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("[llm] close failed: %v", err)
		}
	}
	s.db.Close()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDatabaseTest pings the database and checks that every table exists.
func (s *Server) handleDatabaseTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		log.Printf("[server] database ping failed: %v", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Database connection failed",
		})
		return
	}

	missing, err := s.db.SchemaReady(ctx)
	if err != nil {
		log.Printf("[server] schema check failed: %v", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Schema check failed",
		})
		return
	}
	if len(missing) > 0 {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
			"status":         "error",
			"message":        "Database schema is incomplete, run migrate",
			"missing_tables": missing,
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Database connection successful",
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError writes an error JSON response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	writeError(w, status, message)
}

// successResponse wraps data under key in a {"status": "success"} envelope.
func (s *Server) successResponse(w http.ResponseWriter, status int, key string, data any) {
	s.jsonResponse(w, status, map[string]any{
		"status": "success",
		key:      data,
	})
}

// handleRegister handles account registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

func (s *Server) handleUpdateEmployerPassword(w http.ResponseWriter, r *http.Request) {
	s.authHandler.UpdatePassword(w, r, "employer")
}

func (s *Server) handleUpdateEmployeePassword(w http.ResponseWriter, r *http.Request) {
	s.authHandler.UpdatePassword(w, r, "employee")
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
