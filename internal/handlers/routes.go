package handlers

import (
	"github.com/labstack/echo/v4"

	"godownhub/internal/middleware"
)

// Handlers bundles every HTTP handler group of the API.
type Handlers struct {
	Auth          *AuthHandlers
	Companies     *CompanyHandlers
	Organizations *OrganizationHandlers
	Agreements    *AgreementHandlers
	Godowns       *GodownHandlers
	Allocations   *AllocationHandlers
	Invoices      *InvoiceHandlers
	Users         *UserHandlers
	Roles         *RoleHandlers
	DataBank      *DataBankHandlers
	Dashboard     *DashboardHandlers
	Health        *HealthHandlers
}

// RegisterRoutes mounts the health probes and the /api tree. Every /api route
// except login and logout requires authn; module routes also require the
// module permission.
func RegisterRoutes(e *echo.Echo, h *Handlers, authn echo.MiddlewareFunc, rbac *middleware.RBACMiddleware) {
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me, authn)
	auth.POST("/password", h.Auth.ChangePassword, authn)

	protected := api.Group("", authn)

	protected.GET("/dashboard", h.Dashboard.Summary, rbac.RequirePermission("dashboard"))

	companies := protected.Group("/companies", rbac.RequirePermission("companies"))
	companies.GET("", h.Companies.ListCompanies)
	companies.POST("", h.Companies.CreateCompany, rbac.RequireAdmin())
	companies.GET("/:id", h.Companies.GetCompany)
	companies.PUT("/:id", h.Companies.UpdateCompany)
	companies.DELETE("/:id", h.Companies.DeleteCompany)

	orgs := protected.Group("/organizations", rbac.RequirePermission("organizations"))
	orgs.GET("", h.Organizations.ListOrganizations)
	orgs.POST("", h.Organizations.CreateOrganization)
	orgs.GET("/:id", h.Organizations.GetOrganization)
	orgs.PUT("/:id", h.Organizations.UpdateOrganization)
	orgs.DELETE("/:id", h.Organizations.DeleteOrganization)
	orgs.GET("/:id/agreements", h.Agreements.ListAgreements, rbac.RequirePermission("agreements"))
	orgs.GET("/:id/licenses", h.Agreements.ListLicenses, rbac.RequirePermission("licenses"))

	agreements := protected.Group("/agreements", rbac.RequirePermission("agreements"))
	agreements.GET("", h.Agreements.ListAgreements)
	agreements.POST("", h.Agreements.CreateAgreement)
	agreements.GET("/:id", h.Agreements.GetAgreement)
	agreements.PUT("/:id", h.Agreements.UpdateAgreement)
	agreements.POST("/:id/terminate", h.Agreements.TerminateAgreement)

	licenses := protected.Group("/licenses", rbac.RequirePermission("licenses"))
	licenses.GET("", h.Agreements.ListLicenses)
	licenses.POST("", h.Agreements.CreateLicense)
	licenses.GET("/:id", h.Agreements.GetLicense)
	licenses.PUT("/:id", h.Agreements.UpdateLicense)
	licenses.POST("/:id/revoke", h.Agreements.RevokeLicense)

	godowns := protected.Group("/godowns", rbac.RequirePermission("godowns"))
	godowns.GET("", h.Godowns.ListGodowns)
	godowns.POST("", h.Godowns.CreateGodown)
	godowns.GET("/:id", h.Godowns.GetGodown)
	godowns.PUT("/:id", h.Godowns.UpdateGodown)
	godowns.DELETE("/:id", h.Godowns.DeleteGodown)
	godowns.GET("/:id/occupancy", h.Godowns.GetOccupancy)

	allocations := protected.Group("/allocations", rbac.RequirePermission("allocations"))
	allocations.GET("", h.Allocations.ListAllocations)
	allocations.POST("", h.Allocations.CreateAllocation)
	allocations.GET("/:id", h.Allocations.GetAllocation)
	allocations.PUT("/:id", h.Allocations.UpdateAllocation)
	allocations.POST("/:id/release", h.Allocations.ReleaseAllocation)

	invoices := protected.Group("/invoices", rbac.RequirePermission("invoices"))
	invoices.GET("", h.Invoices.ListInvoices)
	invoices.POST("/generate", h.Invoices.GenerateInvoice)
	invoices.GET("/:id", h.Invoices.GetInvoice)
	invoices.PATCH("/:id/status", h.Invoices.UpdateInvoiceStatus)
	invoices.GET("/:id/pdf", h.Invoices.DownloadInvoicePDF)

	users := protected.Group("/users", rbac.RequirePermission("users"))
	users.GET("", h.Users.ListUsers)
	users.POST("", h.Users.CreateUser)
	users.GET("/:id", h.Users.GetUser)
	users.PUT("/:id", h.Users.UpdateUser)
	users.POST("/:id/disable", h.Users.DisableUser)
	users.POST("/:id/enable", h.Users.EnableUser)

	roles := protected.Group("/roles", rbac.RequirePermission("roles"))
	roles.GET("", h.Roles.ListRoles)
	roles.POST("", h.Roles.CreateRole)
	roles.GET("/:id", h.Roles.GetRole)
	roles.PUT("/:id", h.Roles.UpdateRole)
	roles.DELETE("/:id", h.Roles.DeleteRole)
	roles.GET("/:id/permissions", h.Roles.GetPermissions)
	roles.PUT("/:id/permissions", h.Roles.SetPermissions)

	// Folder level grants are checked by the data bank itself.
	bank := protected.Group("", rbac.RequirePermission("data_bank"))
	bank.GET("/folders/tree", h.DataBank.FolderTree)
	bank.POST("/folders", h.DataBank.CreateFolder)
	bank.PUT("/folders/:id", h.DataBank.RenameFolder)
	bank.PATCH("/folders/:id/move", h.DataBank.MoveFolder)
	bank.DELETE("/folders/:id", h.DataBank.DeleteFolder)
	bank.GET("/folders/:id/access", h.DataBank.FolderAccess)
	bank.GET("/folders/:id/permissions", h.DataBank.ListPermissions)
	bank.PUT("/folders/:id/permissions", h.DataBank.SetPermission)
	bank.DELETE("/folders/:id/permissions/:userId", h.DataBank.RemovePermission)
	bank.GET("/folders/:id/files", h.DataBank.ListFiles)
	bank.POST("/folders/:id/files", h.DataBank.UploadFile)
	bank.GET("/folders/:id/files/versions", h.DataBank.ListVersions)
	bank.DELETE("/files/:identifier", h.DataBank.DeleteFile)
	bank.GET("/uploads/:identifier/download", h.DataBank.DownloadFile)
}
