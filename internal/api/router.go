package api

import (
	"credits_system/internal/account"    // User provisioning
	"credits_system/internal/config"     // Application configuration
	"credits_system/internal/ledger"     // Credit ledger
	"credits_system/internal/middleware" // Auth middleware
	"credits_system/internal/workspace"  // Projects and messages

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Deps are the collaborators handlers are built from
type Deps struct {
	Accounts  *account.Service   // User records
	Ledger    *ledger.Ledger     // Wallets, transactions, payments
	Workspace *workspace.Service // Projects and messages
	Redis     *redis.Client      // Cache and locks
	Config    *config.Config     // Secrets and public settings
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()                      // Gin router instance
	r.Use(gin.Logger(), gin.Recovery()) // Same middleware as gin.Default

	// Auth routes
	r.POST("/auth/signin", SignInHandler(d.Accounts, d.Redis, d.Config.IdentitySecret, d.Config.JWTSecret)) // Sign-in endpoint

	// Payment provider callback, authenticated by shared secret
	r.POST("/payments/webhook", PaymentWebhookHandler(d.Accounts, d.Ledger, d.Redis, d.Config.WebhookSecretHash))

	// Session routes (protected by JWT)
	authed := r.Group("")
	authed.Use(middleware.JWTAuthMiddleware(d.Config.JWTSecret))
	authed.GET("/me", MeHandler(d.Accounts, d.Ledger, d.Redis, d.Config))               // Profile and credits
	authed.GET("/wallet", GetWalletHandler(d.Ledger, d.Redis))                          // Balance endpoint
	authed.GET("/wallet/transactions", GetTransactionHistoryHandler(d.Ledger, d.Redis)) // Transaction history endpoint
	authed.GET("/projects", ListProjectsHandler(d.Workspace))                           // List projects
	authed.POST("/projects", CreateProjectHandler(d.Workspace))                         // Create project
	authed.GET("/projects/:id", GetProjectHandler(d.Workspace))                         // Project with messages
	authed.POST("/projects/:id/messages", PostMessageHandler(d.Workspace, d.Redis))     // Paid chat message

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(d.Config.JWTSecret), middleware.AdminOnlyMiddleware(d.Accounts, d.Config.AdminEmail))
	admin.POST("/grant-credits", GrantCreditsHandler(d.Accounts, d.Ledger, d.Redis)) // Manual credit grant
	admin.GET("/users", ListUsersHandler(d.Ledger, d.Redis))                         // Users with balance and pro status
	admin.GET("/transactions", ListTransactionsHandler(d.Ledger, d.Redis))           // Ledger entries across users

	return r
}
