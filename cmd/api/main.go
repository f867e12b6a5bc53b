package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/shift-attendance-go/internal/config"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/shift-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/geolocation"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/redis"
	"github.com/cmlabs-hris/shift-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-attendance-go/internal/repository/postgresql"
	clockService "github.com/cmlabs-hris/shift-attendance-go/internal/service/clock"
	coverageService "github.com/cmlabs-hris/shift-attendance-go/internal/service/coverage"
	shiftService "github.com/cmlabs-hris/shift-attendance-go/internal/service/shift"
)

type repositories struct {
	tx           database.Transactor
	shifts       shift.ShiftRepository
	clockEntries clock.ClockEntryRepository
	locationLogs clock.LocationLogRepository
	requests     coverage.CoverageRequestRepository
	close        func()
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	var gate shift.ScanGate = shiftService.NewLocalGate(cfg.Attendance.ScanThrottle)
	if addr := cfg.RedisAddr(); addr != "" {
		redisClient, err := redis.NewClient(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		gate = redisClient.ScanGate(cfg.Attendance.ScanThrottle)
		slog.Info("Using redis scan gate", "addr", addr)
	}

	var site *location.Site
	if cfg.Site.Latitude != nil && cfg.Site.Longitude != nil {
		site = &location.Site{
			Center:       location.Position{Latitude: *cfg.Site.Latitude, Longitude: *cfg.Site.Longitude},
			RadiusMeters: cfg.Site.RadiusMeters,
		}
	}

	detector := shiftService.NewDetector(repos.shifts, repos.clockEntries, gate, shiftService.Config{
		GracePeriod:  cfg.Attendance.GracePeriod(),
		ScanThrottle: cfg.Attendance.ScanThrottle,
	})
	clockSvc := clockService.NewClockService(
		repos.clockEntries,
		repos.shifts,
		repos.locationLogs,
		geolocation.NewCapturer(cfg.Attendance.LocationTimeout, site),
		clockService.Config{OvertimeThresholdHours: cfg.Attendance.OvertimeThresholdHours},
	)
	shiftSvc := shiftService.NewShiftService(repos.shifts, repos.clockEntries, detector, shiftService.Config{})
	coverageSvc := coverageService.NewCoverageService(
		repos.tx,
		repos.requests,
		repos.shifts,
		repos.clockEntries,
		detector,
		coverageService.Config{GracePeriod: cfg.Attendance.GracePeriod()},
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		appHTTP.NewClockHandler(clockSvc),
		appHTTP.NewShiftHandler(shiftSvc, detector),
		appHTTP.NewCoverageHandler(coverageSvc),
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(detector, shiftSvc, cfg.Attendance.DetectorInterval, cfg.Attendance.CompletionInterval).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		clockSvc.Flush()
		return err
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Store.Type {
	case config.StoreTypeMemory:
		slog.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			tx:           store,
			shifts:       store.Shifts(),
			clockEntries: store.ClockEntries(),
			locationLogs: store.LocationLogRepository(),
			requests:     store.CoverageRequests(),
			close:        func() {},
		}, nil

	case config.StoreTypePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repositories{
			tx:           postgresql.NewTransactor(db),
			shifts:       postgresql.NewShiftRepository(db),
			clockEntries: postgresql.NewClockEntryRepository(db),
			locationLogs: postgresql.NewLocationLogRepository(db),
			requests:     postgresql.NewCoverageRequestRepository(db),
			close:        db.Close,
		}, nil

	default:
		return repositories{}, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}
}
