package app

import (
	"go-hrms/internal/access"
	"go-hrms/internal/auth"
	"go-hrms/internal/company"
	"go-hrms/internal/config"
	"go-hrms/internal/credential"
	"go-hrms/internal/department"
	"go-hrms/internal/employee"
	"go-hrms/internal/middleware"
	"go-hrms/internal/provisioning"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/task"
	"go-hrms/internal/token"
	"go-hrms/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources every module is built from.
// Redis may be nil.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

// NewRouter builds the gin engine with every module registered.
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
	)

	router.GET("/health", healthHandler(deps.DB))
	router.NoRoute(func(c *gin.Context) {
		response.FromError(c, apperror.ErrNotFound)
	})
	registerModules(router.Group("/api/v1"), deps, logger)

	return router
}

func registerModules(api *gin.RouterGroup, deps Dependencies, logger *zap.Logger) {
	cfg := deps.Config
	db := deps.DB

	// --- Repositories ---
	companyRepo := company.NewRepository(db)
	userRepo := user.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	departmentRepo := department.NewRepository(db)
	taskRepo := task.NewRepository(db)
	counterRepo := counter.NewRepository(db)

	// --- Identity core ---
	hasher := credential.NewHasher(cfg.Security.BcryptCost)
	tokens := token.NewService(cfg.JWT)
	gate := access.NewGate(tokens, userRepo, companyRepo, logger)
	provisioner := provisioning.NewProvisioner(
		db,
		companyRepo,
		userRepo,
		employeeRepo,
		counterRepo,
		hasher,
		cfg.App.CodeMaxAttempts,
		logger,
	)

	// --- Services ---
	authService := auth.NewService(userRepo, companyRepo, hasher, tokens, provisioner, logger)
	companyService := company.NewService(companyRepo, logger)
	departmentService := department.NewService(db, departmentRepo, logger)
	employeeService := employee.NewService(db, employeeRepo, userRepo, provisioner, deps.Redis, logger)
	taskService := task.NewService(db, taskRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	companyHandler := company.NewHandler(companyService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	taskHandler := task.NewHandler(taskService, logger)

	// --- Routes Registration ---
	authn := middleware.Authenticate(gate)
	auth.RegisterRoutes(api, authHandler, authn, middleware.Idempotency(deps.Redis, logger))
	company.RegisterRoutes(api, companyHandler, authn, middleware.RequireAdmin())
	department.RegisterRoutes(api, departmentHandler, gate)
	employee.RegisterRoutes(api, employeeHandler, gate, deps.Redis)
	task.RegisterRoutes(api, taskHandler, gate)
}
