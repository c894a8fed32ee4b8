package services

import (
	"context"
	"log"
	"time"

	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/config"
	"desaku-api/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// StaleAfter is how long an application may stay pending before the digest flags it
const StaleAfter = 72 * time.Hour

// Pinger checks the database connection
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron   *cron.Cron
	apps   repositories.ApplicationRepository
	pinger Pinger
	cfg    config.CronConfig
}

// NewCronService creates a new cron service
func NewCronService(apps repositories.ApplicationRepository, pinger Pinger, cfg config.CronConfig) *CronService {
	return &CronService{
		cron:   cron.New(),
		apps:   apps,
		pinger: pinger,
		cfg:    cfg,
	}
}

// DigestReport summarizes the application backlog
type DigestReport struct {
	Counts map[domain.ApplicationStatus]int64
	Stale  int64
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	if s.cfg.DigestSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.DigestSpec, s.digestJob); err != nil {
			return err
		}
	}
	if s.cfg.PingSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.PingSpec, s.pingJob); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Printf("⏰ Cron started (digest=%q, ping=%q)", s.cfg.DigestSpec, s.cfg.PingSpec)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("⏰ Cron stopped")
}

// Digest counts applications per status and those pending longer than StaleAfter
func (s *CronService) Digest(ctx context.Context) (*DigestReport, error) {
	counts, err := s.apps.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stale, err := s.apps.CountPendingBefore(ctx, time.Now().Add(-StaleAfter))
	if err != nil {
		return nil, err
	}
	return &DigestReport{Counts: counts, Stale: stale}, nil
}

func (s *CronService) digestJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := s.Digest(ctx)
	if err != nil {
		log.Printf("❌ Application digest failed: %v", err)
		return
	}
	log.Printf("📋 Applications: pending=%d processing=%d approved=%d rejected=%d (stale pending=%d)",
		report.Counts[domain.StatusPending],
		report.Counts[domain.StatusProcessing],
		report.Counts[domain.StatusApproved],
		report.Counts[domain.StatusRejected],
		report.Stale,
	)
}

func (s *CronService) pingJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.pinger.HealthCheck(ctx); err != nil {
		log.Printf("❌ Database ping failed: %v", err)
	}
}
