package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/gastos-pro/internal/application/auth"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
	infrapdf "github.com/jhoicas/gastos-pro/internal/infrastructure/pdf"
	"github.com/jhoicas/gastos-pro/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gastos-pro/internal/interfaces/http"
	"github.com/jhoicas/gastos-pro/pkg/config"
	"github.com/jhoicas/gastos-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool (lecturas); los mutadores corren vía TxRunner.
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	moduleRepo := postgres.NewModuleRepository(pool)
	companyModuleRepo := postgres.NewCompanyModuleRepository(pool)
	userModuleRepo := postgres.NewUserModuleRepository(pool)
	customRoleRepo := postgres.NewCustomRoleRepository(pool)
	roleTemplateRepo := postgres.NewRoleTemplateRepository(pool)
	roleAssignmentRepo := postgres.NewRoleAssignmentRepository(pool)
	dataPermRepo := postgres.NewDataPermissionRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	provisioningUC := usecase.NewProvisioningUseCase(txRunner, moduleRepo, companyRepo, companyModuleRepo)
	userModuleUC := usecase.NewUserModuleUseCase(txRunner, userRepo, moduleRepo, companyModuleRepo, userModuleRepo)
	roleUC := usecase.NewRoleUseCase(txRunner, customRoleRepo, roleTemplateRepo, roleAssignmentRepo, companyModuleRepo, userRepo)
	dataPermUC := usecase.NewDataPermissionUseCase(txRunner, userRepo, dataPermRepo, auditRepo)
	resolverUC := usecase.NewResolverUseCase(userRepo, customRoleRepo, roleAssignmentRepo, companyModuleRepo, userModuleRepo, dataPermRepo)

	// PDF: representación del trail de auditoría
	auditExporter := infrapdf.NewMarotoAuditExporter()
	auditUC := usecase.NewAuditUseCase(auditRepo, companyRepo, auditExporter)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gastos Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:        companyUC,
		UserUC:           userUC,
		ProvisioningUC:   provisioningUC,
		UserModuleUC:     userModuleUC,
		RoleUC:           roleUC,
		DataPermissionUC: dataPermUC,
		AuditUC:          auditUC,
		ResolverUC:       resolverUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
