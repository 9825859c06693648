// Package scheduler
package scheduler

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wildlifemlxy/shb-survey-sub004/app/services"
	businessflow "github.com/wildlifemlxy/shb-survey-sub004/business_flow"
	"github.com/wildlifemlxy/shb-survey-sub004/config"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
	"github.com/wildlifemlxy/shb-survey-sub004/repository"
)

var (
	reminderTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_ticks_total",
			Help: "Reminder check ticks executed",
		},
	)

	remindersSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Survey reminders dispatched and marked sent",
		},
	)
)

// ReminderScheduler periodically checks for surveys due for a reminder and
// triggers notification fan-out for each. It also drives the periodic
// re-ingestion of the source spreadsheet.
type ReminderScheduler struct {
	repo       repository.SurveyRepository
	recipients repository.RecipientRepository
	formatter  *services.MessageFormatter
	dispatcher *services.NotificationDispatcher
	ingestion  businessflow.IngestionFlow
	cfg        config.SchedulerConfig
	location   *time.Location
	now        func() time.Time
	logger     *log.Logger
}

func NewReminderScheduler(
	repo repository.SurveyRepository,
	recipients repository.RecipientRepository,
	formatter *services.MessageFormatter,
	dispatcher *services.NotificationDispatcher,
	ingestion businessflow.IngestionFlow,
	cfg config.SchedulerConfig,
	location *time.Location,
	logCfg config.LoggingConfig,
) *ReminderScheduler {
	if location == nil {
		location = time.Local
	}
	s := &ReminderScheduler{
		repo:       repo,
		recipients: recipients,
		formatter:  formatter,
		dispatcher: dispatcher,
		ingestion:  ingestion,
		cfg:        cfg,
		location:   location,
		now:        time.Now,
	}
	s.logger = newSchedulerLogger(logCfg)
	return s
}

// newSchedulerLogger configures a logger that writes to both stdout and a
// rotating persistent file
func newSchedulerLogger(cfg config.LoggingConfig) *log.Logger {
	if cfg.FilePath == "" {
		return log.New(os.Stdout, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	mw := io.MultiWriter(os.Stdout, rotator)
	// log.Logger is goroutine-safe; include timestamps with microseconds and UTC
	return log.New(mw, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
}

// Start registers the cron entries and launches them in the background. It
// returns a stop function. An initial ingestion run fires immediately so the
// repository is warm before the first reminder tick.
func (s *ReminderScheduler) Start(parent context.Context) (func(), error) {
	ctx, cancel := context.WithCancel(parent)

	c := cron.New(cron.WithLocation(s.location))

	if s.cfg.ReminderEnabled {
		if _, err := c.AddFunc(s.cfg.ReminderCronSpec, func() { s.RunReminderCheck(ctx) }); err != nil {
			cancel()
			return nil, err
		}
		s.logger.Printf("scheduler: reminder check scheduled %q tz=%s offsetDays=%d",
			s.cfg.ReminderCronSpec, s.location, s.cfg.ReminderOffsetDays)
	}
	if s.cfg.IngestionEnabled {
		if _, err := c.AddFunc(s.cfg.IngestionCronSpec, func() { s.runIngestion(ctx) }); err != nil {
			cancel()
			return nil, err
		}
		s.logger.Printf("scheduler: ingestion scheduled %q tz=%s", s.cfg.IngestionCronSpec, s.location)
	}

	go s.runIngestion(ctx)

	c.Start()

	return func() {
		cancel()
		<-c.Stop().Done()
	}, nil
}

func (s *ReminderScheduler) runIngestion(ctx context.Context) {
	if s.ingestion == nil {
		return
	}
	if _, err := s.ingestion.RunIngestion(ctx); err != nil {
		s.logger.Printf("scheduler: ingestion run failed: %v", err)
	}
}

// RunReminderCheck evaluates every not-yet-reminded record against the target
// calendar day (today + offset). Records are processed in stable category then
// row order; one record's dispatch failure never prevents evaluation of the
// next, and the sent flag is persisted before moving on.
func (s *ReminderScheduler) RunReminderCheck(ctx context.Context) {
	reminderTicksTotal.Inc()

	target := s.now().In(s.location).AddDate(0, 0, s.cfg.ReminderOffsetDays)
	recipients := s.recipients.All()

	surveys := s.repo.All()
	for _, category := range models.Categories() {
		for index, record := range surveys[category] {
			if record.ReminderSent {
				continue
			}
			if !record.OccursOn(target) {
				continue
			}

			payload := s.formatter.Format(record)
			outcomes := s.dispatcher.Dispatch(ctx, payload, recipients)
			if len(outcomes) == 0 {
				s.logger.Printf("scheduler: survey %s/%d due but no recipients configured", category, index)
				continue
			}

			failures := 0
			for _, o := range outcomes {
				if !o.Success {
					failures++
				}
			}
			s.logger.Printf("scheduler: reminder dispatched for %s/%d date=%q recipients=%d failures=%d",
				category, index, record.Date, len(outcomes), failures)

			// At least one delivery was attempted, so the reminder counts as
			// sent; a later tick must not repeat it. The mark resolves the
			// record by key, not snapshot position, so a re-ingestion that
			// reordered the set mid-dispatch cannot flag the wrong record.
			if err := s.repo.MarkReminderSent(category, record.Key()); err != nil {
				s.logger.Printf("scheduler: persist reminder flag failed for %s/%d: %v", category, index, err)
			}
			remindersSentTotal.Inc()
		}
	}
}
