package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"FondoSync/internal/model"
	"FondoSync/internal/notifier"
	"FondoSync/internal/pipeline"
)

// Scheduler manages the daily ingestion cron tasks. The mail runner
// and notifier are optional; nil disables them.
type Scheduler struct {
	Cron     *cron.Cron
	API      *pipeline.Runner
	Mail     *pipeline.Runner
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, api, mail *pipeline.Runner, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		API:      api,
		Mail:     mail,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily API task and, when the mail path is
// configured, the daily mail task.
func (s *Scheduler) RegisterAll(apiCron, mailCron string) error {
	if _, err := s.Cron.AddFunc(apiCron, s.apiTask); err != nil {
		return fmt.Errorf("register api task: %w", err)
	}
	if s.Mail != nil {
		if _, err := s.Cron.AddFunc(mailCron, s.mailTask); err != nil {
			return fmt.Errorf("register mail task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunAPINow executes the API ingestion immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunAPINow() model.RunSummary {
	return s.run(s.API)
}

// RunMailNow executes the mail ingestion immediately. Returns a failed
// summary when the mail path is not configured.
func (s *Scheduler) RunMailNow() model.RunSummary {
	if s.Mail == nil {
		return model.RunSummary{Source: "gmail", Message: "mail ingestion not configured"}
	}
	return s.run(s.Mail)
}

func (s *Scheduler) apiTask() {
	log.Println("[INFO] running daily api ingestion")
	s.run(s.API)
}

func (s *Scheduler) mailTask() {
	log.Println("[INFO] running daily mail ingestion")
	s.run(s.Mail)
}

func (s *Scheduler) run(r *pipeline.Runner) model.RunSummary {
	summary := r.Run(s.Ctx)
	s.trySend(notifier.FormatRunSummary(summary))
	return summary
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
