package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegbb/presskit/app/cfg"
	"github.com/olegbb/presskit/app/content"
	"github.com/olegbb/presskit/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	library     *content.Library
	renderer    *content.Renderer
	linter      *content.Linter
	postRepo    database.PostRepository
	lintRepo    database.LintRepository
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(library *content.Library, renderer *content.Renderer, linter *content.Linter,
	postRepo database.PostRepository, lintRepo database.LintRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		library:     library,
		renderer:    renderer,
		linter:      linter,
		postRepo:    postRepo,
		lintRepo:    lintRepo,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueScanTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueScanTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueScanTasks re-scans the content directory and enqueues a sync for
// every post whose source bytes changed, followed by one corpus lint.
func (s *Scheduler) enqueueScanTasks() {
	if err := s.library.Run(); err != nil {
		slog.Error("Content scan failed", "error", err)
		return
	}

	hashes, err := s.postRepo.GetSourceHashes()
	if err != nil {
		slog.Error("Failed to load stored source hashes", "error", err)
		return
	}

	posts := s.library.GetPosts()
	slog.Debug("Content scan finished", "posts", len(posts), "parse_errors", len(s.library.GetParseErrors()))

	changed := 0
	for slug, post := range posts {
		if hashes[slug] == post.SourceHash {
			continue
		}

		syncTask := NewSyncPostTask(post, s.library, s.renderer, s.postRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncPostTask", "slug", slug, "error", err)
			continue
		}
		changed++
	}

	if changed > 0 {
		slog.Debug("Enqueued post sync tasks", "count", changed)
	}

	lintTask := NewLintCorpusTask(s.library, s.linter, s.postRepo, s.lintRepo)
	if err := s.EnqueueTask(lintTask); err != nil {
		slog.Warn("Failed to enqueue LintCorpusTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "slug", task.GetSlug(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// Tracked by the WaitGroup so Stop cannot close the queue while a
			// retry is still pending.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(retryDelay):
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
