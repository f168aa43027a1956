// Package scheduler defers publisher calls to a future instant or a recurring
// schedule. Jobs live only in process memory; a restart loses them.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"lipost/internal/lipost"
	"lipost/internal/logutil"
)

// Publisher is the slice of the LinkedIn client the scheduler needs.
type Publisher interface {
	Publish(ctx context.Context, req lipost.PostRequest) (*lipost.PostResult, error)
}

// Job is the handle for one deferred post. It can be cancelled until it
// fires; once fired it runs to completion.
type Job struct {
	ID      string
	FiresAt time.Time

	timer *time.Timer
	done  chan struct{}
}

// Done is closed after the job body finishes, whether it succeeded or failed.
// A cancelled job's channel is never closed.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel stops the timer. It reports whether the cancellation happened before
// the job started firing.
func (j *Job) Cancel() bool { return j.timer.Stop() }

// Scheduler registers deferred and recurring post submissions.
type Scheduler struct {
	publisher Publisher

	mu   sync.Mutex
	jobs map[string]*Job
	cron *cron.Cron
}

// New constructs a Scheduler submitting through the given publisher.
func New(publisher Publisher) *Scheduler {
	return &Scheduler{
		publisher: publisher,
		jobs:      make(map[string]*Job),
		cron:      cron.New(),
	}
}

// Schedule registers a one-shot submission of req at the given instant and
// returns immediately. An instant at or before now fires at the next tick
// rather than being rejected. The fired job's outcome is logged and contained;
// it never propagates to other jobs or to the process.
func (s *Scheduler) Schedule(req lipost.PostRequest, at time.Time) *Job {
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	job := &Job{
		ID:      uuid.NewString(),
		FiresAt: at,
		done:    make(chan struct{}),
	}

	job.timer = time.AfterFunc(delay, func() {
		defer close(job.done)
		s.fire(job, req)
	})

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	logutil.Info("job scheduled", "id", job.ID, "kind", req.Kind(), "fires_at", at.Format(time.RFC3339))
	return job
}

// Every registers a recurring submission of req on a cron spec (5-field or
// "@every <duration>"). Start must be called for recurring entries to run.
func (s *Scheduler) Every(spec string, req lipost.PostRequest) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		s.fire(&Job{ID: uuid.NewString(), FiresAt: time.Now()}, req)
	})
	if err != nil {
		return 0, err
	}
	logutil.Info("recurring job registered", "entry", int(id), "kind", req.Kind(), "spec", spec)
	return id, nil
}

// Start begins running recurring entries.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the recurring runner and waits for in-flight entries. Pending
// one-shot timers are unaffected.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

func (s *Scheduler) fire(job *Job, req lipost.PostRequest) {
	defer func() {
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
	}()

	logutil.Debug("job firing", "id", job.ID, "kind", req.Kind())
	res, err := s.publisher.Publish(context.Background(), req)
	if err != nil {
		logutil.Error("scheduled post failed", "id", job.ID, "kind", req.Kind(), "err", err)
		return
	}
	logutil.Info("scheduled post published", "id", job.ID, "share", res.ID)
}
