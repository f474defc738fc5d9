package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopworks/shop-erp-backend-go/internal/config"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
	appHTTP "github.com/shopworks/shop-erp-backend-go/internal/handler/http"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/clock"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/cron"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/jwt"
	"github.com/shopworks/shop-erp-backend-go/internal/repository/postgresql"
	attendanceService "github.com/shopworks/shop-erp-backend-go/internal/service/attendance"
	overtimeService "github.com/shopworks/shop-erp-backend-go/internal/service/overtime"
	payrollService "github.com/shopworks/shop-erp-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shopRepo := postgresql.NewShopRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	tx := postgresql.NewTransactor(db)

	clk := clock.System()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	policy := payroll.DefaultPolicy()
	policy.FinalizeCoverageThreshold = cfg.Payroll.FinalizeCoverageThreshold
	if premium, err := decimal.NewFromString(cfg.Payroll.OvertimePremium); err == nil {
		policy.OvertimePremium = premium
	}

	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		tx,
		attendanceRepo,
		overtimeRepo,
		shopRepo,
		leaveRepo,
		employeeRepo,
		clk,
		cfg.Attendance,
		policy.FinalizeCoverageThreshold,
	)
	overtimeSvc := overtimeService.NewOvertimeService(
		db,
		tx,
		overtimeRepo,
		attendanceRepo,
		employeeRepo,
		shopRepo,
		clk,
		cfg.Attendance,
	)
	payrollSvc := payrollService.NewPayrollService(
		db,
		tx,
		payrollRepo,
		attendanceRepo,
		employeeRepo,
		shopRepo,
		policy,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(cfg, JWTService, attendanceHandler, overtimeHandler, payrollHandler)

	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, employeeRepo, shopRepo, leaveRepo, clk, cfg.Attendance)
	scheduler := cron.NewScheduler()
	scheduler.AddJob("mark-absent-employees", time.Hour, attendanceJobs.MarkAbsentEmployees)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	if err := server.Close(); err != nil {
		log.Fatal("Shutdown error: ", err)
	}
}
