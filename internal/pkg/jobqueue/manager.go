package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/database"
	"github.com/thejzagency/swfldines/internal/pkg/env"
	metrics "github.com/thejzagency/swfldines/internal/pkg/metrics/counter"
	"github.com/thejzagency/swfldines/internal/pkg/places"
)

const dueSequenceBatchSize = 50

// Manager manages the global job queue and background tasks
type Manager struct {
	queue              *Queue
	sequenceTicker     *time.Ticker
	reviewTicker       *time.Ticker
	counterFlushTicker *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 5
		if v, err := strconv.Atoi(env.GetEnv("JOB_QUEUE_WORKERS", "5")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	// Scan for due upsell sequences every minute
	m.sequenceTicker = time.NewTicker(time.Minute)
	m.wg.Add(1)
	go m.sequenceWorker()

	// Refresh stale Google ratings hourly (no-op without an API key)
	m.reviewTicker = time.NewTicker(time.Hour)
	m.wg.Add(1)
	go m.reviewWorker()

	// Start counter flush worker (Redis -> DB) every 5 seconds
	m.counterFlushTicker = time.NewTicker(5 * time.Second)
	m.wg.Add(1)
	go m.counterFlushWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.sequenceTicker != nil {
		m.sequenceTicker.Stop()
	}
	if m.reviewTicker != nil {
		m.reviewTicker.Stop()
	}
	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}

	// Signal workers to stop. The channel stays set until Start recreates
	// it, so a worker mid-loop never reads a nil channel.
	close(m.stopCh)
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// sequenceWorker periodically enqueues jobs for due upsell email sequences
func (m *Manager) sequenceWorker() {
	defer m.wg.Done()
	log.Info("[JobQueue Manager] Started upsell sequence worker")

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Upsell sequence worker stopping")
			return
		case <-m.sequenceTicker.C:
			if err := m.enqueueDueSequencesOnce(); err != nil {
				log.Errorf("[JobQueue Manager] Upsell sequence scan error: %v", err)
			}
		}
	}
}

// enqueueDueSequencesOnce scans for due sequences and enqueues one email
// job per sequence. The scheduled time is pushed forward immediately so a
// sequence is never enqueued twice while its job is still pending.
func (m *Manager) enqueueDueSequencesOnce() error {
	db := database.GetDB()
	if db == nil {
		return nil
	}
	sequences := repository.NewEmailSequenceRepository(db)

	due, err := sequences.ListDue(time.Now(), dueSequenceBatchSize)
	if err != nil {
		return err
	}

	for i := range due {
		sequence := due[i]
		payload := UpsellEmailJobPayload{SequenceID: sequence.ID}
		if _, err := m.queue.EnqueueJob(JobTypeUpsellEmail, payload.ToMap()); err != nil {
			log.Errorf("[JobQueue Manager] Failed to enqueue upsell email for sequence %d: %v", sequence.ID, err)
			continue
		}
		next := time.Now().Add(UpsellStepInterval)
		sequence.NextEmailScheduledAt = &next
		if err := sequences.Update(&sequence); err != nil {
			log.Errorf("[JobQueue Manager] Failed to reschedule sequence %d: %v", sequence.ID, err)
		}
	}
	return nil
}

// reviewWorker periodically enqueues Google rating syncs for stale listings
func (m *Manager) reviewWorker() {
	defer m.wg.Done()
	log.Info("[JobQueue Manager] Started review refresh worker")

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Review refresh worker stopping")
			return
		case <-m.reviewTicker.C:
			if err := m.enqueueStaleReviewsOnce(); err != nil {
				log.Errorf("[JobQueue Manager] Review refresh scan error: %v", err)
			}
		}
	}
}

// enqueueStaleReviewsOnce enqueues one refresh job per active listing whose
// synced Google rating is older than the refresh interval
func (m *Manager) enqueueStaleReviewsOnce() error {
	if !places.NewClientFromEnv().IsConfigured() {
		return nil
	}
	db := database.GetDB()
	if db == nil {
		return nil
	}

	active, err := repository.NewRestaurantRepository(db).ListActive()
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range active {
		restaurant := &active[i]
		if !shouldRefreshReviews(restaurant, now) {
			continue
		}
		payload := ReviewRefreshJobPayload{RestaurantID: restaurant.ID}
		if _, err := m.queue.EnqueueJob(JobTypeReviewRefresh, payload.ToMap()); err != nil {
			log.Errorf("[JobQueue Manager] Failed to enqueue review refresh for restaurant %d: %v", restaurant.ID, err)
		}
	}
	return nil
}

// counterFlushWorker periodically flushes view/click counters from Redis to DB
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Counter flush worker stopping")
			return
		case <-m.counterFlushTicker.C:
			if err := metrics.FlushAll(); err != nil {
				log.Errorf("[JobQueue Manager] Counter flush error: %v", err)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
