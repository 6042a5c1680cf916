package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/auth"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC        *usecase.CompanyUseCase
	UserUC           *usecase.UserUseCase
	ProvisioningUC   *usecase.ProvisioningUseCase
	UserModuleUC     *usecase.UserModuleUseCase
	RoleUC           *usecase.RoleUseCase
	DataPermissionUC *usecase.DataPermissionUseCase
	AuditUC          *usecase.AuditUseCase
	ResolverUC       *usecase.ResolverUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (alta pública; lecturas protegidas)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleSuperAdmin), companyHandler.List)
	companies.Get("/:id", AuthMiddleware(deps.JWTSecret), companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Usuarios (lecturas administrativas, alcance de la propia empresa)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	// Módulos: catálogo, aprovisionamiento por empresa y acceso por usuario
	modules := protected.Group("/modules")
	moduleHandler := NewModuleHandler(deps.ProvisioningUC, deps.UserModuleUC, deps.UserUC)
	modules.Get("/", moduleHandler.ListCatalog)
	modules.Get("/company/:companyId", RequireRole(entity.RoleAdmin), moduleHandler.ListCompanyModules)
	modules.Post("/company/:companyId/enable/:moduleId", RequireRole(entity.RoleSuperAdmin), moduleHandler.EnableCompanyModule)
	modules.Post("/company/:companyId/disable/:moduleId", RequireRole(entity.RoleSuperAdmin), moduleHandler.DisableCompanyModule)
	modules.Patch("/:moduleId/classification", RequireRole(entity.RoleSuperAdmin), moduleHandler.ChangeClassification)
	modules.Get("/user/:userId", RequireRole(entity.RoleAdmin), moduleHandler.ListUserModules)
	modules.Post("/user/:userId/enable/:moduleId", RequireRole(entity.RoleAdmin), moduleHandler.EnableUserModule)
	modules.Post("/user/:userId/disable/:moduleId", RequireRole(entity.RoleAdmin), moduleHandler.DisableUserModule)

	// Roles personalizados y plantillas
	roles := protected.Group("/roles", RequireRole(entity.RoleAdmin))
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Post("/", roleHandler.Create)
	roles.Get("/", roleHandler.List)
	roles.Post("/from-template/:templateId", roleHandler.CreateFromTemplate)
	roles.Get("/:id", roleHandler.GetByID)
	roles.Get("/:id/validate", roleHandler.Validate)
	roles.Post("/:id/assign/:userId", roleHandler.Assign)
	protected.Get("/role-templates", RequireRole(entity.RoleAdmin), roleHandler.ListTemplates)

	// Overrides por usuario y libro de auditoría. Mutar overrides exige,
	// además del rol, la clave permissions.grant en el set resuelto del
	// actor: una revocación explícita sobre un admin cierra estas rutas.
	dataPerms := protected.Group("/data-permissions")
	dataPermHandler := NewDataPermissionHandler(deps.DataPermissionUC, deps.AuditUC, deps.UserUC)
	canGrant := RequirePermission(entity.PermDataPermsGrant, deps.ResolverUC)
	dataPerms.Get("/audit", RequireRole(entity.RoleSuperAdmin), dataPermHandler.QueryAudit)
	dataPerms.Get("/audit/export", RequireRole(entity.RoleSuperAdmin), dataPermHandler.ExportAudit)
	dataPerms.Post("/user/:userId/grant", RequireRole(entity.RoleAdmin), canGrant, dataPermHandler.Grant)
	dataPerms.Post("/user/:userId/revoke", RequireRole(entity.RoleAdmin), canGrant, dataPermHandler.Revoke)
	dataPerms.Post("/user/:userId/bulk-grant", RequireRole(entity.RoleAdmin), canGrant, dataPermHandler.BulkGrant)
	dataPerms.Get("/user/:userId", RequireRole(entity.RoleAdmin), dataPermHandler.ListForUser)

	// Resolución de permisos
	perms := protected.Group("/permissions")
	permHandler := NewPermissionHandler(deps.ResolverUC, deps.UserUC)
	perms.Get("/effective/:userId", permHandler.Effective)
	perms.Post("/check", permHandler.Check)
	perms.Post("/safe-actions", permHandler.SafeActions)
}
