// @title           BrushWorks API
// @version         1.0
// @description     BrushWorks Backend API - painting contractor quoting platform.

// @contact.name   API Support

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	_ "backend/docs"
	"backend/handlers"
	"backend/services"
	"backend/storage"
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var cronRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://app.brushworks.app",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
		"Accept-Language", "Connection",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

// safeGo runs a named maintenance job in its own goroutine, recovering from
// panics and reporting errors to the cron logger.
func safeGo(ctx context.Context, wg *sync.WaitGroup, name string, job func(ctx context.Context) error, cronLogger *log.Logger) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Cron job %s panicked: %v", name, r)
				if cronLogger != nil {
					cronLogger.Printf("Cron job %s panicked: %v", name, r)
				}
			}
		}()
		if err := job(ctx); err != nil {
			log.Printf("Cron job %s failed: %v", name, err)
			if cronLogger != nil {
				cronLogger.Printf("Cron job %s failed: %v", name, err)
			}
		}
	}()
}

// expireStaleQuotes marks quotes that were sent more than 30 days ago and never
// answered as expired.
func expireStaleQuotes(db *sql.DB) error {
	_, err := db.Exec(`
		UPDATE quotes
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'sent' AND updated_at < NOW() - INTERVAL '30 days'
	`)
	return err
}

func main() {
	db := storage.InitDB()
	gdb := storage.InitGormDB()

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	emailService := services.NewEmailService(db)

	// Daily maintenance at 02:30.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)

	cronLogFile, err := os.OpenFile("cron_errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open cron error log file: %v", err)
	}
	cronLogger := log.New(cronLogFile, "CRON_ERROR: ", log.LstdFlags)

	_, err = c.AddFunc("30 2 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			if cronLogger != nil {
				cronLogger.Println("Previous cron still running. Skipping this run.")
			}
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting daily maintenance cron job")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		var wg sync.WaitGroup

		safeGo(ctx, &wg, "CleanupExpiredSessions", func(ctx context.Context) error {
			return storage.CleanupExpiredSessions(db)
		}, cronLogger)

		safeGo(ctx, &wg, "ExpireStaleQuotes", func(ctx context.Context) error {
			return expireStaleQuotes(db)
		}, cronLogger)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("All cron jobs finished")
		case <-ctx.Done():
			log.Println("Cron timeout reached, jobs cancelled")
			if cronLogger != nil {
				cronLogger.Println("Cron timeout reached, jobs cancelled")
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}

	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== AUTH & SESSIONS ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))
	r.POST("/api/logout-all", handlers.LogoutAllHandler(db))
	r.GET("/api/validate_session", handlers.ValidateSession(db))
	r.GET("/api/sessions", handlers.GetSessionsHandler(db))

	// ==================== QUOTE CALCULATION ====================
	r.POST("/api/quotes/preview", handlers.PreviewQuote)

	// ==================== QUOTES ====================
	r.POST("/api/quotes", handlers.CreateQuote(db, gdb))
	r.GET("/api/quotes", handlers.GetQuotes(db, gdb))
	r.GET("/api/quotes/:id", handlers.GetQuote(db, gdb))
	r.DELETE("/api/quotes/:id", handlers.DeleteQuote(db, gdb))
	r.PUT("/api/quotes/:id/status", handlers.UpdateQuoteStatus(db, gdb))
	r.POST("/api/quotes/:id/recalculate", handlers.RecalculateQuote(db, gdb))
	r.GET("/api/quotes/:id/tiers", handlers.CompareQuoteTiers(db, gdb))
	r.GET("/api/quotes/:id/pdf", handlers.GenerateProposalPDF(db, gdb))
	r.GET("/api/quotes/:id/qr", handlers.GenerateQuoteQRCode(db, gdb))
	r.POST("/api/quotes/:id/send", handlers.SendProposal(db, gdb, emailService))

	// ==================== PRICING SCHEMES ====================
	r.POST("/api/pricing-schemes", handlers.CreatePricingScheme(db, gdb))
	r.GET("/api/pricing-schemes", handlers.GetPricingSchemes(db, gdb))
	r.GET("/api/pricing-schemes/:id", handlers.GetPricingScheme(db, gdb))
	r.PUT("/api/pricing-schemes/:id", handlers.UpdatePricingScheme(db, gdb))
	r.PUT("/api/pricing-schemes/:id/active", handlers.SetPricingSchemeActive(db, gdb))
	r.DELETE("/api/pricing-schemes/:id", handlers.DeletePricingScheme(db, gdb))

	// ==================== PRODUCT CONFIGS ====================
	r.POST("/api/products", handlers.CreateProductConfig(db, gdb))
	r.GET("/api/products", handlers.GetProductConfigs(db, gdb))
	r.GET("/api/products/:id", handlers.GetProductConfig(db, gdb))
	r.PUT("/api/products/:id", handlers.UpdateProductConfig(db, gdb))
	r.DELETE("/api/products/:id", handlers.DeleteProductConfig(db, gdb))

	// ==================== SETTINGS ====================
	r.GET("/api/settings", handlers.GetContractorSettings(db, gdb))
	r.PUT("/api/settings", handlers.UpdateContractorSettings(db, gdb))
	r.GET("/api/settings/zip-markups", handlers.GetZipMarkups(db, gdb))
	r.POST("/api/settings/zip-markups", handlers.CreateZipMarkup(db, gdb))
	r.DELETE("/api/settings/zip-markups/:id", handlers.DeleteZipMarkup(db, gdb))

	// ==================== CUSTOMERS ====================
	r.POST("/api/customers", handlers.CreateCustomer(db, gdb))
	r.GET("/api/customers", handlers.GetCustomers(db, gdb))
	r.GET("/api/customers/:id", handlers.GetCustomer(db, gdb))
	r.PUT("/api/customers/:id", handlers.UpdateCustomer(db, gdb))
	r.DELETE("/api/customers/:id", handlers.DeleteCustomer(db, gdb))

	// ==================== CUSTOMER PORTAL (PUBLIC) ====================
	r.GET("/api/portal/quote/:token", handlers.GetPortalQuote(gdb))

	// ==================== DASHBOARD & EXPORT ====================
	r.GET("/api/dashboard", handlers.GetDashboardStats(db))
	r.GET("/api/export/quotes", handlers.ExportQuotesXLSX(db, gdb))
	r.GET("/api/export/customers", handlers.ExportCustomersCSV(db, gdb))

	// ==================== USERS ====================
	r.POST("/api/users", handlers.CreateUserHandler(db))
	r.GET("/api/users", handlers.GetUsersHandler(db))

	// ==================== EMAIL TEMPLATES ====================
	r.GET("/api/email/variables", handlers.GetEmailTemplateVariables(emailService))
	r.POST("/api/email/preview", handlers.PreviewEmailTemplate(emailService))

	// ==================== ACTIVITY LOGS ====================
	r.GET("/api/activity-logs", handlers.GetActivityLogsHandler(db))
	r.POST("/api/activity-logs", handlers.CreateActivityLogHandler(db))

	// ==================== SWAGGER ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
