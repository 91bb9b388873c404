package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/meireles/campus-records-api/internal/handler"
	"github.com/meireles/campus-records-api/internal/middleware"
	"github.com/meireles/campus-records-api/internal/models"
	"github.com/meireles/campus-records-api/internal/repository"
	"github.com/meireles/campus-records-api/internal/service"
	"github.com/meireles/campus-records-api/pkg/config"
	"github.com/meireles/campus-records-api/pkg/database"
	"github.com/meireles/campus-records-api/pkg/logger"
	corsmiddleware "github.com/meireles/campus-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/meireles/campus-records-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	personRepo := repository.NewPersonRepository(db)
	majorRepo := repository.NewMajorRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authService := service.NewAuthService(personRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	personService := service.NewPersonService(personRepo, validate, logr, cfg.Fees.TuitionFee)
	enrollmentService := service.NewEnrollmentService(majorRepo, courseRepo, activityRepo, personRepo,
		validate, logr, cfg.Fees.TuitionFee, cfg.Fees.ActivityFee)
	gradeService := service.NewGradeService(gradeRepo, validate, logr)
	financeService := service.NewFinanceService(financeRepo, personRepo, validate, logr)
	reportService := service.NewReportService(reportRepo, personRepo, personRepo, logr)

	authHandler := handler.NewAuthHandler(authService)
	personHandler := handler.NewPersonHandler(personService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	gradeHandler := handler.NewGradeHandler(gradeService)
	financeHandler := handler.NewFinanceHandler(financeService)
	reportHandler := handler.NewReportHandler(reportService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := r.Group(cfg.APIPrefix)

	// Login and person registration are reachable without a session token.
	api.PUT("/user", authHandler.Login)
	api.POST("/user", personHandler.Register)

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	staff := middleware.RequireRoles(models.RoleStaff)
	student := middleware.RequireRoles(models.RoleStudent)
	instructor := middleware.RequireRoles(models.RoleInstructor)

	protected.GET("/persons", staff, personHandler.List)
	protected.POST("/register/student", staff, personHandler.RegisterStudent)
	protected.POST("/register/staff", staff, personHandler.RegisterStaff)
	protected.POST("/register/instructor", staff, personHandler.RegisterInstructor)
	protected.DELETE("/person/:id", staff, personHandler.Delete)

	protected.POST("/enroll_degree/:degree_id", staff, enrollmentHandler.EnrollDegree)
	protected.POST("/unenroll_degree", staff, enrollmentHandler.UnenrollDegree)
	protected.POST("/enroll_course_edition/:course_edition_id", student, enrollmentHandler.EnrollCourseEdition)
	protected.POST("/enroll_activity/:activity_id", student, enrollmentHandler.EnrollActivity)

	protected.POST("/submit_grades/:course_edition_id", instructor, gradeHandler.Submit)

	protected.GET("/student_details/:id", middleware.RequireStaffOrSelf(), reportHandler.StudentDetails)
	protected.GET("/financial_status/:id", middleware.RequireStaffOrSelf(), financeHandler.FinancialStatus)
	protected.GET("/degree_details/:degree_id", staff, reportHandler.DegreeDetails)
	protected.GET("/top3", staff, reportHandler.TopStudents)
	protected.GET("/top_by_district", staff, reportHandler.TopByDistrict)
	protected.GET("/report", staff, reportHandler.MonthlyReport)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
