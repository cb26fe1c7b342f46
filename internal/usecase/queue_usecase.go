package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rychidesign/geo-analyser/internal/dto"
	"github.com/rychidesign/geo-analyser/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

const maxFinishedJobs = 50

// ScanRunner is what the queue dispatches to; ScanUsecase implements it.
type ScanRunner interface {
	Run(ctx context.Context, projectID string, report ProgressFunc, token *RunToken) (string, error)
}

// ScanQueueUsecase owns all scan jobs and enforces single-flight execution:
// at most one job runs at a time, the rest wait in FIFO order. All state is
// guarded by one mutex; the engine only talks back through the progress
// callback and its return value.
type ScanQueueUsecase struct {
	mu       sync.Mutex
	runner   ScanRunner
	queued   []*model.ScanJob
	current  *model.ScanJob
	token    *RunToken
	paused   bool
	finished []*model.ScanJob
	subs     map[int]chan []dto.ScanJobDTO
	nextSub  int
}

func NewScanQueueUsecase(runner ScanRunner) *ScanQueueUsecase {
	return &ScanQueueUsecase{
		runner: runner,
		subs:   map[int]chan []dto.ScanJobDTO{},
	}
}

// Enqueue admits a new job for the project and dispatches if the queue is idle.
func (q *ScanQueueUsecase) Enqueue(projectID string) string {
	q.mu.Lock()
	job := &model.ScanJob{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		Status:     model.JobStatusQueued,
		EnqueuedAt: time.Now(),
	}
	q.queued = append(q.queued, job)
	q.notifyLocked()
	q.mu.Unlock()

	q.dispatch()
	return job.ID
}

func (q *ScanQueueUsecase) dispatch() {
	q.mu.Lock()
	if q.paused || q.current != nil || len(q.queued) == 0 {
		q.mu.Unlock()
		return
	}
	job := q.queued[0]
	q.queued = q.queued[1:]
	now := time.Now()
	job.Status = model.JobStatusRunning
	job.StartedAt = &now
	q.current = job
	token := NewRunToken()
	q.token = token
	q.notifyLocked()
	q.mu.Unlock()

	go q.execute(job, token)
}

func (q *ScanQueueUsecase) execute(job *model.ScanJob, token *RunToken) {
	scanID, err := q.runner.Run(context.Background(), job.ProjectID, func(p Progress) {
		q.onProgress(job, p)
	}, token)

	q.mu.Lock()
	switch {
	case job.Status == model.JobStatusCancelled || errors.Is(err, ErrScanCancelled):
		// Cancel already freed the slot and recorded the terminal state.
	case err != nil:
		now := time.Now()
		job.Status = model.JobStatusFailed
		job.Error = err.Error()
		job.ScanID = scanID
		job.CompletedAt = &now
		q.retireLocked(job)
		q.notifyLocked()
	default:
		now := time.Now()
		job.Status = model.JobStatusCompleted
		job.ScanID = scanID
		job.CompletedAt = &now
		q.retireLocked(job)
		q.notifyLocked()
	}
	q.mu.Unlock()

	q.dispatch()
}

// onProgress applies engine progress only while the job is still running; a
// paused job's late events are discarded.
func (q *ScanQueueUsecase) onProgress(job *model.ScanJob, p Progress) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if job.Status != model.JobStatusRunning {
		return
	}
	if p.Completed > p.Total {
		p.Completed = p.Total
	}
	job.Progress = model.JobProgress{Total: p.Total, Completed: p.Completed, Current: p.Current}
	q.notifyLocked()
}

// Pause suspends the running job at its next checkpoint and blocks dispatch
// of queued jobs. The in-flight provider call is allowed to finish.
func (q *ScanQueueUsecase) Pause(jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil || q.current.ID != jobID || q.current.Status != model.JobStatusRunning {
		return fmt.Errorf("job %s is not running", jobID)
	}
	q.current.Status = model.JobStatusPaused
	q.paused = true
	q.token.Pause()
	q.notifyLocked()
	return nil
}

func (q *ScanQueueUsecase) Resume(jobID string) error {
	q.mu.Lock()
	if q.current == nil || q.current.ID != jobID || q.current.Status != model.JobStatusPaused {
		q.mu.Unlock()
		return fmt.Errorf("job %s is not paused", jobID)
	}
	q.current.Status = model.JobStatusRunning
	q.paused = false
	q.token.Resume()
	q.notifyLocked()
	q.mu.Unlock()

	q.dispatch()
	return nil
}

// Cancel works from any non-terminal state. A queued job is removed outright;
// the running (or paused) job has its token cancelled and the slot is freed
// immediately, without waiting for the engine to notice.
func (q *ScanQueueUsecase) Cancel(jobID string) error {
	q.mu.Lock()
	now := time.Now()

	for i, job := range q.queued {
		if job.ID != jobID {
			continue
		}
		q.queued = append(q.queued[:i], q.queued[i+1:]...)
		job.Status = model.JobStatusCancelled
		job.CompletedAt = &now
		q.retireLocked(job)
		q.notifyLocked()
		q.mu.Unlock()
		return nil
	}

	if q.current != nil && q.current.ID == jobID {
		job := q.current
		job.Status = model.JobStatusCancelled
		job.CompletedAt = &now
		q.token.Cancel()
		q.retireLocked(job)
		q.notifyLocked()
		q.mu.Unlock()

		q.dispatch()
		return nil
	}

	q.mu.Unlock()
	return ErrJobNotFound
}

func (q *ScanQueueUsecase) GetJobs() []dto.ScanJobDTO {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

func (q *ScanQueueUsecase) GetJobsByProject(projectID string) []dto.ScanJobDTO {
	jobs := []dto.ScanJobDTO{}
	for _, job := range q.GetJobs() {
		if job.ProjectID == projectID {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func (q *ScanQueueUsecase) GetJob(jobID string) (dto.ScanJobDTO, error) {
	for _, job := range q.GetJobs() {
		if job.ID == jobID {
			return job, nil
		}
	}
	return dto.ScanJobDTO{}, ErrJobNotFound
}

// Subscribe returns a channel of job-list snapshots, pushed on every mutation
// in mutation order, and an unsubscribe func. A subscriber that falls behind
// misses snapshots instead of blocking the queue.
func (q *ScanQueueUsecase) Subscribe() (<-chan []dto.ScanJobDTO, func()) {
	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	ch := make(chan []dto.ScanJobDTO, 32)
	q.subs[id] = ch
	q.mu.Unlock()

	unsubscribe := func() {
		q.mu.Lock()
		if sub, ok := q.subs[id]; ok {
			delete(q.subs, id)
			close(sub)
		}
		q.mu.Unlock()
	}
	return ch, unsubscribe
}

// retireLocked frees the current-job slot if job holds it and moves the job
// into the bounded finished list. The global pause flag belongs to the current
// job, so releasing the slot must release the flag too; a run can finish while
// paused (pause never interrupts in-flight work) and would otherwise leave
// dispatch blocked forever.
func (q *ScanQueueUsecase) retireLocked(job *model.ScanJob) {
	if q.current == job {
		q.current = nil
		q.token = nil
		q.paused = false
	}
	q.finished = append(q.finished, job)
	if len(q.finished) > maxFinishedJobs {
		q.finished = q.finished[len(q.finished)-maxFinishedJobs:]
	}
}

func (q *ScanQueueUsecase) snapshotLocked() []dto.ScanJobDTO {
	jobs := []dto.ScanJobDTO{}
	if q.current != nil {
		jobs = append(jobs, dto.NewScanJobDTO(q.current))
	}
	for _, job := range q.queued {
		jobs = append(jobs, dto.NewScanJobDTO(job))
	}
	for i := len(q.finished) - 1; i >= 0; i-- {
		jobs = append(jobs, dto.NewScanJobDTO(q.finished[i]))
	}
	return jobs
}

func (q *ScanQueueUsecase) notifyLocked() {
	snapshot := q.snapshotLocked()
	for _, sub := range q.subs {
		select {
		case sub <- snapshot:
		default:
		}
	}
}
