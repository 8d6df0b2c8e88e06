package handlers

import (
	_ "taskboard/internal/docs" // registers the OpenAPI document served under /swagger
	"taskboard/internal/middleware"
	"taskboard/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router holds every handler group and the middleware the routes need.
type Router struct {
	Auth         *AuthHandlers
	Tenant       *TenantHandlers
	Users        *UserHandlers
	Locations    *LocationHandlers
	Topics       *TopicHandlers
	Access       *AccessHandlers
	Tasks        *TaskHandlers
	Notification *NotificationHandlers
	Documents    *DocumentHandlers
	Reports      *ReportHandlers
	References   *ReferenceHandlers
	Assessments  *AssessmentHandlers
	Jobs         *JobHandlers
	Health       *HealthHandlers

	AuthService   services.AuthService
	TenantService services.TenantService
	Guard         *middleware.AccessMiddleware
	Version       *middleware.VersionMiddleware
}

// Register mounts the public endpoints and the /v1 API on e.
func (r *Router) Register(e *echo.Echo) {
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/live", r.Health.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := r.Version.VersionRoute(e, "v1")

	tenant := middleware.ResolveTenant(r.TenantService)
	auth := v1.Group("/auth")
	auth.POST("/login", r.Auth.Login, tenant)
	auth.POST("/refresh", r.Auth.Refresh)
	auth.GET("/sso/:provider/redirect", r.Auth.SSORedirect, tenant)
	auth.GET("/sso/:provider/callback", r.Auth.SSOCallback)

	api := v1.Group("",
		echojwt.WithConfig(middleware.JWTConfig(r.AuthService)),
		middleware.Authenticate(r.AuthService),
		middleware.AuditRequest(middleware.AuditLow),
	)
	admin := r.Guard.RequireAdmin()
	superAdmin := r.Guard.RequireSuperAdmin()
	cred := r.Guard.RequireCred

	api.POST("/auth/logout", r.Auth.Logout)
	api.GET("/me", r.Auth.Me)

	api.GET("/customer", r.Tenant.GetCustomer)
	api.PUT("/customer", r.Tenant.UpdateCustomer, admin)
	clients := api.Group("/socialite-clients", admin)
	clients.GET("", r.Tenant.ListSocialiteClients)
	clients.POST("", r.Tenant.CreateSocialiteClient)
	clients.GET("/:id", r.Tenant.GetSocialiteClient)
	clients.PUT("/:id", r.Tenant.UpdateSocialiteClient)
	clients.DELETE("/:id", r.Tenant.DeleteSocialiteClient)

	api.GET("/users", r.Users.ListUsers)
	api.POST("/users", r.Users.CreateUser, admin)
	api.GET("/users/:id", r.Users.GetUser)
	api.PUT("/users/:id", r.Users.UpdateUser)
	api.PUT("/users/:id/password", r.Users.UpdatePassword)
	api.DELETE("/users/:id", r.Users.DeleteUser, admin)

	api.GET("/locations", r.Locations.ListLocations)
	api.POST("/locations", r.Locations.CreateLocation, admin)
	api.GET("/locations/:id", r.Locations.GetLocation)
	api.PUT("/locations/:id", r.Locations.UpdateLocation, admin)
	api.DELETE("/locations/:id", r.Locations.DeleteLocation, admin)

	api.GET("/topics", r.Topics.ListTopics)
	api.POST("/topics", r.Topics.CreateTopic, admin)
	api.GET("/topics/:id", r.Topics.GetTopic)
	api.PUT("/topics/:id", r.Topics.UpdateTopic, admin)
	api.DELETE("/topics/:id", r.Topics.DeleteTopic, admin)

	api.GET("/creds", r.Access.ListCreds)
	profiles := api.Group("/profiles", admin)
	profiles.GET("", r.Access.ListProfiles)
	profiles.POST("", r.Access.CreateProfile)
	profiles.GET("/:id", r.Access.GetProfile)
	profiles.PUT("/:id", r.Access.UpdateProfile)
	profiles.DELETE("/:id", r.Access.DeleteProfile)
	profiles.GET("/:id/creds", r.Access.GetProfileCreds)
	profiles.PUT("/:id/creds", r.Access.ReplaceProfileCreds)
	securities := api.Group("/securities", admin)
	securities.GET("", r.Access.ListSecurities)
	securities.POST("", r.Access.CreateSecurity)
	securities.GET("/:id", r.Access.GetSecurity)
	securities.PUT("/:id", r.Access.UpdateSecurity)
	securities.DELETE("/:id", r.Access.DeleteSecurity)

	api.GET("/tasks", r.Tasks.ListTasks, cred("tasks.view"))
	api.POST("/tasks", r.Tasks.CreateTask, cred("tasks.manage"))
	api.GET("/tasks/:id", r.Tasks.GetTask, cred("tasks.view"))
	api.PUT("/tasks/:id", r.Tasks.UpdateTask, cred("tasks.manage"))
	api.DELETE("/tasks/:id", r.Tasks.DeleteTask, cred("tasks.manage"))
	api.POST("/tasks/:id/complete", r.Tasks.CompleteTask, cred("tasks.complete"))
	api.GET("/completed-tasks", r.Tasks.ListCompletedTasks, cred("tasks.view"))
	api.DELETE("/completed-tasks/:id", r.Tasks.ReopenTask, cred("tasks.complete"))
	api.GET("/task-sets/:id/progress", r.Tasks.TaskSetProgress, cred("tasks.view"))
	api.POST("/task-sets/:id/complete", r.Tasks.CompleteTaskSet, cred("tasks.complete"))
	api.GET("/completed-task-sets", r.Tasks.ListCompletedTaskSets, cred("tasks.view"))
	api.DELETE("/completed-task-sets/:id", r.Tasks.ReopenTaskSet, cred("tasks.complete"))

	api.GET("/notifications", r.Notification.ListNotifications)
	api.POST("/notifications/:id/read", r.Notification.MarkRead)

	api.GET("/documents", r.Documents.ListDocuments)
	api.POST("/documents", r.Documents.UploadDocument, cred("documents.manage"))
	api.GET("/documents/:id", r.Documents.GetDocument)
	api.PUT("/documents/:id", r.Documents.UpdateDocument, cred("documents.manage"))
	api.DELETE("/documents/:id", r.Documents.DeleteDocument, cred("documents.manage"))
	api.GET("/documents/:id/download", r.Documents.DownloadDocument)

	api.GET("/report-catalogs", r.Reports.ListCatalogs)
	api.POST("/report-catalogs", r.Reports.CreateCatalog, superAdmin)
	api.GET("/report-catalogs/:id", r.Reports.GetCatalog)
	api.PUT("/report-catalogs/:id", r.Reports.UpdateCatalog, superAdmin)
	api.DELETE("/report-catalogs/:id", r.Reports.DeleteCatalog, superAdmin)
	api.GET("/report-sections", r.Reports.ListSections)
	api.POST("/report-sections", r.Reports.CreateSection, superAdmin)
	api.GET("/report-sections/:id", r.Reports.GetSection)
	api.PUT("/report-sections/:id", r.Reports.UpdateSection, superAdmin)
	api.DELETE("/report-sections/:id", r.Reports.DeleteSection, superAdmin)
	api.GET("/report-filters", r.Reports.ListFilters)
	api.POST("/report-filters", r.Reports.CreateFilter, superAdmin)
	api.GET("/report-filters/:id", r.Reports.GetFilter)
	api.PUT("/report-filters/:id", r.Reports.UpdateFilter, superAdmin)
	api.DELETE("/report-filters/:id", r.Reports.DeleteFilter, superAdmin)

	api.GET("/reports/task-status", r.Reports.TaskStatus, cred("reports.view"))
	api.GET("/reports/task-status/pdf", r.Reports.TaskStatusPDF, cred("reports.view"))
	api.GET("/reports", r.Reports.ListReports, cred("reports.view"))
	api.POST("/reports", r.Reports.CreateReport, cred("reports.manage"))
	api.GET("/reports/:id", r.Reports.GetReport, cred("reports.view"))
	api.PUT("/reports/:id", r.Reports.UpdateReport, cred("reports.manage"))
	api.DELETE("/reports/:id", r.Reports.DeleteReport, cred("reports.manage"))

	api.GET("/legal-refs", r.References.ListLegalRefs)
	api.POST("/legal-refs", r.References.CreateLegalRef, admin)
	api.GET("/legal-refs/:id", r.References.GetLegalRef)
	api.PUT("/legal-refs/:id", r.References.UpdateLegalRef, admin)
	api.DELETE("/legal-refs/:id", r.References.DeleteLegalRef, admin)
	api.GET("/license-industries", r.References.ListIndustries)
	api.POST("/license-industries", r.References.CreateIndustry, admin)
	api.GET("/license-industries/:id", r.References.GetIndustry)
	api.PUT("/license-industries/:id", r.References.UpdateIndustry, admin)
	api.DELETE("/license-industries/:id", r.References.DeleteIndustry, admin)
	api.GET("/license-users", r.References.ListLicenseUsers)
	api.POST("/license-users", r.References.CreateLicenseUser, admin)
	api.GET("/license-users/:id", r.References.GetLicenseUser)
	api.PUT("/license-users/:id", r.References.UpdateLicenseUser, admin)
	api.DELETE("/license-users/:id", r.References.DeleteLicenseUser, admin)

	api.GET("/tasks-assessment-infos", r.Assessments.ListAssessments)
	api.POST("/tasks-assessment-infos", r.Assessments.CreateAssessment, cred("tasks.complete"))
	api.GET("/tasks-assessment-infos/:id", r.Assessments.GetAssessment)
	api.PUT("/tasks-assessment-infos/:id", r.Assessments.UpdateAssessment, cred("tasks.complete"))
	api.DELETE("/tasks-assessment-infos/:id", r.Assessments.DeleteAssessment, cred("tasks.complete"))
	api.GET("/tasks-report-customs", r.Assessments.ListCustomReports)
	api.POST("/tasks-report-customs", r.Assessments.CreateCustomReport, cred("reports.manage"))
	api.GET("/tasks-report-customs/:id", r.Assessments.GetCustomReport)
	api.PUT("/tasks-report-customs/:id", r.Assessments.UpdateCustomReport, cred("reports.manage"))
	api.DELETE("/tasks-report-customs/:id", r.Assessments.DeleteCustomReport, cred("reports.manage"))
	api.GET("/tasks-report-customs/:id/items", r.Assessments.ListCustomReportItems)
	api.POST("/tasks-report-customs/:id/items", r.Assessments.AddCustomReportItem, cred("reports.manage"))
	api.DELETE("/tasks-report-customs/:id/items/:itemID", r.Assessments.DeleteCustomReportItem, cred("reports.manage"))

	jobs := api.Group("/jobs", superAdmin)
	jobs.POST("/refresh-colors", r.Jobs.RefreshColors)
	jobs.POST("/instantiate-recurring", r.Jobs.InstantiateRecurring)
}
