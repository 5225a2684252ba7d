package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/uni-timetable-api/api/swagger"
	"github.com/noah-isme/uni-timetable-api/internal/handler"
	"github.com/noah-isme/uni-timetable-api/internal/middleware"
	"github.com/noah-isme/uni-timetable-api/internal/repository"
	"github.com/noah-isme/uni-timetable-api/internal/service"
	"github.com/noah-isme/uni-timetable-api/pkg/cache"
	"github.com/noah-isme/uni-timetable-api/pkg/config"
	"github.com/noah-isme/uni-timetable-api/pkg/database"
	"github.com/noah-isme/uni-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/uni-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-timetable-api/pkg/middleware/requestid"
)

// @title University Timetable API
// @version 1.0.0
// @description Academic timetable generation and schedule management
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Workload.CacheTTL, logr, false)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient), metricsSvc, cfg.Workload.CacheTTL, logr, true)
	}

	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	locker := &database.Locker{DB: db}

	catalogSvc := service.NewCatalogService(subjectRepo, facultyRepo, classroomRepo, departmentRepo, courseRepo)
	scheduleSvc := service.NewScheduleService(scheduleRepo, subjectRepo, facultyRepo, classroomRepo, courseRepo, locker, nil, logr, cfg.Generator.TypicalClassSize)
	workloadSvc := service.NewWorkloadService(scheduleRepo, facultyRepo, cacheSvc, logr, service.WorkloadConfig{
		MinLoad: cfg.Workload.MinLoad,
		MaxLoad: cfg.Workload.MaxLoad,
	})
	generationSvc := service.NewGenerationService(subjectRepo, facultyRepo, classroomRepo, courseRepo, scheduleRepo, locker, metricsSvc, nil, logr, service.GenerationConfig{
		SessionDuration:  cfg.Generator.SessionDuration,
		ClosingTime:      cfg.Generator.ClosingTime,
		TypicalClassSize: cfg.Generator.TypicalClassSize,
		WeeklyRoomSlots:  cfg.Generator.WeeklyRoomSlots,
	})
	exportSvc := service.NewExportService(scheduleRepo)

	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	generationHandler := handler.NewGenerationHandler(generationSvc, workloadSvc)
	workloadHandler := handler.NewWorkloadHandler(workloadSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := middleware.JWT(cfg.JWT.Secret)

	api.GET("/subjects", catalogHandler.ListSubjects)
	api.GET("/subjects/:id", catalogHandler.GetSubject)
	api.GET("/faculty", catalogHandler.ListFaculty)
	api.GET("/faculty/:id", catalogHandler.GetFaculty)
	api.GET("/faculty/:id/workload", workloadHandler.Report)
	api.GET("/classrooms", catalogHandler.ListClassrooms)
	api.GET("/classrooms/:id", catalogHandler.GetClassroom)
	api.GET("/departments", catalogHandler.ListDepartments)
	api.GET("/departments/:id/workload", workloadHandler.DepartmentSummary)
	api.GET("/courses", catalogHandler.ListCourses)

	api.GET("/schedules", scheduleHandler.List)
	api.GET("/schedules/:id", scheduleHandler.Get)
	api.POST("/schedules", auth, scheduleHandler.Create)
	api.PUT("/schedules/:id", auth, scheduleHandler.Update)
	api.DELETE("/schedules/:id", auth, scheduleHandler.Archive)
	api.POST("/schedules/conflicts", scheduleHandler.CheckConflicts)

	api.POST("/timetable/generate", auth, generationHandler.Generate)
	api.GET("/timetable/export", exportHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
