package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/config"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/database"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/logging"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/observability"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/queue"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/router"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/service"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/utils"
)

const purgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer lg.Closer()
	log := lg.Sugar

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		log.Warnw("sentry disabled", "err", err)
	}
	defer flush()

	if cfg.InsecureSecret {
		log.Warn("JWT_SECRET is not set; using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalw("database unavailable", "driver", cfg.DB.Driver, "err", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		log.Fatalw("migrations failed", "err", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	students := repository.NewStudentRepo(db)
	lecturers := repository.NewLecturerRepo(db)
	theses := repository.NewThesisRepo(db)

	var pub service.EventPublisher = service.NopPublisher{}
	if cfg.Events.Enabled {
		p := queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		defer p.Close()
		pub = p
	}

	auth := service.NewAuthService(users, tokens, utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), cfg.Argon2.Params(), log)

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil && cfg.RateLimit.Enabled {
		log.Warnw("redis unreachable, rate limiting disabled", "addr", cfg.Redis.Addr)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	e := router.New(router.Deps{
		DB:        db,
		Auth:      auth,
		Profiles:  service.NewProfileService(users, students, lecturers),
		Theses:    service.NewThesisService(students, lecturers, theses),
		Guidance:  service.NewGuidanceService(theses, repository.NewGuidanceSessionRepo(db), repository.NewSubmissionRepo(db), repository.NewCommentRepo(db), pub, log),
		RateLimit: cfg.RateLimit,
		Redis:     rdb,
		Log:       lg.Base,
	})

	var wg sync.WaitGroup
	if cfg.Events.ConsumerEnabled {
		c := queue.NewConsumer(cfg.Events.URL, cfg.Events.Queue, cfg.Events.LogDir, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		purgeRevoked(ctx, tokens, log)
	}()

	go func() {
		addr := ":" + cfg.Port
		log.Infow("listening", "addr", addr, "env", cfg.Env, "db", cfg.DB.Driver)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Errorw("server stopped", "err", err)
			observability.CaptureErr(err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http shutdown", "err", err)
	}
	wg.Wait()
}

// purgeRevoked drops revocation entries of tokens that have expired anyway.
func purgeRevoked(ctx context.Context, tokens *repository.TokenRepo, log *zap.SugaredLogger) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := tokens.PurgeExpired(ctx)
			if err != nil {
				log.Warnw("purge revoked tokens", "err", err)
				continue
			}
			if n > 0 {
				log.Debugw("purged revoked tokens", "count", n)
			}
		}
	}
}
