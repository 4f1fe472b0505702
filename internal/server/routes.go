package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "github.com/MSMelok/FlixHiringManagement/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MSMelok/FlixHiringManagement/internal/auth"
	"github.com/MSMelok/FlixHiringManagement/internal/controller/applicant"
	"github.com/MSMelok/FlixHiringManagement/internal/controller/dashboard"
	"github.com/MSMelok/FlixHiringManagement/internal/controller/export"
	"github.com/MSMelok/FlixHiringManagement/internal/metrics"
	"github.com/MSMelok/FlixHiringManagement/internal/middleware"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.Blacklist)
	applicantCtl := applicant.NewApplicantController(s.DB, s.Notifier)
	dashboardCtl := dashboard.NewDashboardController(s.DB)
	exportCtl := export.NewExportController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader(), metrics.RequestCounter())

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("google", gAuth.GoogleLoginHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(s.Blacklist))

			needAuth.POST("/auth/logout", logout.LogoutHandler)

			applicantRoute := needAuth.Group("/applicant")
			{
				applicantRoute.GET("", applicantCtl.ListApplicants)
				applicantRoute.POST("", applicantCtl.CreateApplicant)
				applicantRoute.GET(":id", applicantCtl.GetApplicant)
				applicantRoute.PATCH(":id", applicantCtl.UpdateApplicant)
				applicantRoute.DELETE(":id", applicantCtl.DeleteApplicant)
				applicantRoute.POST(":id/transition", applicantCtl.TransitionApplicant)
				applicantRoute.GET(":id/history", applicantCtl.GetHistory)
			}

			needAuth.PATCH("/history/:id/result", applicantCtl.MarkHistoryResult)

			dashboardRoute := needAuth.Group("/dashboard")
			{
				dashboardRoute.GET("summary", dashboardCtl.GetSummary)
				dashboardRoute.GET("activity", dashboardCtl.GetActivity)
			}

			exportRoute := needAuth.Group("/export")
			{
				exportRoute.GET("json", exportCtl.ExportJSON)
				exportRoute.GET("csv", exportCtl.ExportCSV)
			}

			needAdmin := needAuth.Group("")
			{
				needAdmin.Use(middleware.CheckRole(model.RoleAdmin))
				needAdmin.POST("/auth/register", lAuth.LocalRegisterHandler)
				needAdmin.DELETE("/export/all", exportCtl.EraseAll)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
