package background

import (
	"context"
	"log"
	"time"

	"github.com/MananRajppout/newamplify/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the service's background jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	emailSvc  services.EmailService
}

// NewJobScheduler creates a scheduler with the email outbox retry job
// registered.
func NewJobScheduler(emailSvc services.EmailService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		emailSvc:  emailSvc,
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Email outbox retry - every minute, never overlapping itself.
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(js.retryFailedEmails),
		gocron.WithName("email-outbox-retry"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create email retry job: %v", err)
	}
}

func (js *JobScheduler) retryFailedEmails() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := js.emailSvc.RetryFailedEmails(ctx); err != nil {
		log.Printf("WARN: email outbox retry failed: %v", err)
	}
}
