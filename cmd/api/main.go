package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/vidyadesk/school-backend-go/internal/config"
	appHTTP "github.com/vidyadesk/school-backend-go/internal/handler/http"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cron"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
	"github.com/vidyadesk/school-backend-go/internal/pkg/jwt"
	"github.com/vidyadesk/school-backend-go/internal/pkg/notify"
	"github.com/vidyadesk/school-backend-go/internal/repository/postgresql"
	payrollService "github.com/vidyadesk/school-backend-go/internal/service/payroll"
	periodService "github.com/vidyadesk/school-backend-go/internal/service/period"
	profileService "github.com/vidyadesk/school-backend-go/internal/service/profile"
	"github.com/vidyadesk/school-backend-go/internal/service/readiness"
	reportService "github.com/vidyadesk/school-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	var appCache cache.Cache
	if cfg.Redis.Addr != "" {
		appCache, err = cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
	} else {
		appCache = cache.Noop{}
	}

	periodRepo := postgresql.NewPeriodRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	structureRepo := postgresql.NewStructureRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	notifier := notify.NewLogNotifier(slog.Default())
	classifier := readiness.NewClassifier(readiness.DefaultRules())
	rates := payrollService.RatesFromConfig(cfg.Statutory)

	periodSvc := periodService.NewService(db, periodRepo, payrollRepo, notifier, appCache)
	payrollSvc := payrollService.NewService(db, payrollRepo, periodRepo, profileRepo, structureRepo, loanRepo, classifier, rates, appCache)
	profileSvc := profileService.NewService(db, profileRepo, notifier, appCache)
	reportSvc := reportService.NewService(periodRepo, payrollRepo, profileRepo, appCache)

	periodHandler := appHTTP.NewPeriodHandler(periodSvc, payrollSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	profileHandler := appHTTP.NewProfileHandler(profileSvc)
	settingsHandler := appHTTP.NewSettingsHandler(payrollSvc)

	router := appHTTP.NewRouter(cfg, jwtService, periodHandler, reportHandler, profileHandler, settingsHandler)

	scheduler := cron.NewScheduler()
	payrollJobs := cron.NewPayrollJobs(payrollRepo, periodSvc)
	payrollJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Starting server", "addr", addr, "env", cfg.App.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error:", err)
	}
}
