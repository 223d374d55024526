package bus

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"soundmark/blob"
	"soundmark/db"
	"soundmark/metrics"
)

// JobStatus is the lifecycle state of a submitted Job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobComplete   JobStatus = "complete"
	JobFailed     JobStatus = "failed"
)

// Job tracks one SongUploaded event through the worker pool.
type Job struct {
	ID          string
	Event       SongUploaded
	Status      JobStatus
	Err         error
	SubmittedAt time.Time
	CompletedAt *time.Time
}

// Worker is the in-process worker pool that models the message-bus
// consumer: a fixed number of goroutines pull SongUploaded events off a
// buffered channel and run them through ProcessEvent. There is no
// external broker in this deployment, so EventProducer is satisfied by
// ChannelProducer (fan out to in-process subscribers) or MockProducer
// (tests); see producer.go.
type Worker struct {
	bucket   string
	blobs    blob.Store
	store    db.Store
	producer EventProducer
	log      *zap.Logger

	numWorkers int
	jobs       chan *Job

	mu      sync.RWMutex
	byID    map[string]*Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewWorker builds a pool sized to the host CPU count, capped at 8, mirroring
// the teacher pool's sizing.
func NewWorker(bucket string, blobs blob.Store, store db.Store, producer EventProducer, log *zap.Logger) *Worker {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return &Worker{
		bucket:     bucket,
		blobs:      blobs,
		store:      store,
		producer:   producer,
		log:        log,
		numWorkers: workers,
		jobs:       make(chan *Job, 256),
		byID:       make(map[string]*Job),
	}
}

// Start launches the worker goroutines. Calling Start twice is a no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.run(i)
	}
}

// Stop cancels the worker context and waits for every worker goroutine to
// return. A job already being processed runs on with the cancelled
// context; jobs still queued are not processed and stay pending.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.mu.Unlock()
	w.wg.Wait()
}

// Submit enqueues event for processing and returns its tracking Job.
// Returns an error if the queue is full rather than blocking the caller.
func (w *Worker) Submit(event SongUploaded) (*Job, error) {
	job := &Job{
		ID:          uuid.New().String(),
		Event:       event,
		Status:      JobPending,
		SubmittedAt: time.Now(),
	}

	w.mu.Lock()
	w.byID[job.ID] = job
	w.mu.Unlock()

	select {
	case w.jobs <- job:
		return job, nil
	default:
		return nil, fmt.Errorf("worker queue is full")
	}
}

// Status returns a copy of the tracked job's current state.
func (w *Worker) Status(jobID string) (Job, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	job, ok := w.byID[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (w *Worker) run(id int) {
	defer w.wg.Done()
	for {
		select {
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			w.process(id, job)
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Worker) process(workerID int, job *Job) {
	w.setStatus(job.ID, JobProcessing, nil)

	songID, err := w.store.InsertSong(w.ctx, job.Event.SongID)
	if err != nil {
		w.fail(workerID, job, fmt.Errorf("registering song: %w", err))
		return
	}

	if err := ProcessEvent(w.ctx, w.bucket, w.blobs, w.store, w.producer, job.Event, songID); err != nil {
		w.fail(workerID, job, err)
		return
	}

	w.setStatus(job.ID, JobComplete, nil)
	metrics.Get().JobsTotal.WithLabelValues("complete").Inc()
	if w.log != nil {
		w.log.Info("job complete", zap.Int("worker", workerID), zap.String("job_id", job.ID), zap.String("song_id", job.Event.SongID))
	}
}

func (w *Worker) fail(workerID int, job *Job, err error) {
	w.setStatus(job.ID, JobFailed, err)
	metrics.Get().JobsTotal.WithLabelValues("failed").Inc()
	if w.log != nil {
		w.log.Error("job failed", zap.Int("worker", workerID), zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (w *Worker) setStatus(jobID string, status JobStatus, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	job, ok := w.byID[jobID]
	if !ok {
		return
	}
	job.Status = status
	job.Err = err
	if status == JobComplete || status == JobFailed {
		now := time.Now()
		job.CompletedAt = &now
	}
}
