package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/internal/models"
	"sjsage522/newsworker/internal/warehouse"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/pkg/errors"
	"sjsage522/newsworker/services/cache"
	"sjsage522/newsworker/services/publisher"
)

// publishKey is the stream field each uploaded row is published under
const publishKey = "b64_news"

// HarvesterFactory opens a fresh session and returns a harvester owning it
type HarvesterFactory func() (*crawler.Harvester, error)

// Worker runs harvest → tabulate → load → publish
type Worker struct {
	newHarvester HarvesterFactory
	loader       *warehouse.Loader
	publisher    publisher.Publisher
	cooldown     *cache.Cooldown
	url          string
	interval     time.Duration
	log          *logger.Logger
}

// Option configures optional worker collaborators
type Option func(*Worker)

// WithPublisher publishes every uploaded row after a successful load
func WithPublisher(p publisher.Publisher) Option {
	return func(w *Worker) {
		w.publisher = p
	}
}

// WithCooldown skips runs while a rate-limit cooldown is active
func WithCooldown(c *cache.Cooldown) Option {
	return func(w *Worker) {
		w.cooldown = c
	}
}

// WithInterval repeats runs every d; zero runs once
func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		w.interval = d
	}
}

// NewWorker creates a new worker
func NewWorker(url string, newHarvester HarvesterFactory, loader *warehouse.Loader, opts ...Option) *Worker {
	w := &Worker{
		newHarvester: newHarvester,
		loader:       loader,
		url:          url,
		log:          logger.ForWorker(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RunResult describes one run
type RunResult struct {
	RunID     string
	Skipped   bool
	Harvest   crawler.HarvestResult
	Load      warehouse.LoadResult
	Published int
	Elapsed   time.Duration
}

// Uploaded returns the uploaded row count, or false when the run uploaded nothing
func (r RunResult) Uploaded() (int64, bool) {
	if r.Load.Status != errors.StatusOK {
		return 0, false
	}
	return r.Load.Rows, true
}

// Start runs once, or every interval until ctx is done. report is called
// after each run.
func (w *Worker) Start(ctx context.Context, report func(RunResult)) error {
	report(w.RunOnce(ctx))
	if w.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			report(w.RunOnce(ctx))
		}
	}
}

// RunOnce harvests the page, loads the table and publishes the rows.
// Nothing is uploaded when the harvest produced no table.
func (w *Worker) RunOnce(ctx context.Context) (result RunResult) {
	start := time.Now()
	result = RunResult{RunID: uuid.NewString()}
	log := w.log.WithField("run_id", result.RunID)

	defer func() {
		result.Elapsed = time.Since(start)
		log.Debug().Dur("elapsed", result.Elapsed).Msg("Run finished")
	}()

	if w.cooldown != nil && w.cooldown.Active() {
		log.Warn().Msg("Skipping run while the site cooldown is active")
		result.Skipped = true
		return result
	}

	harvester, err := w.newHarvester()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open browser session")
		result.Harvest = crawler.HarvestResult{Status: errors.StatusFailed, Err: err}
		return result
	}

	result.Harvest = harvester.Harvest(ctx, w.url)
	if errors.Is(result.Harvest.Err, errors.ErrorTypeRateLimit) && w.cooldown != nil {
		w.cooldown.Start()
	}
	if result.Harvest.Table == nil {
		log.Warn().
			Str("status", result.Harvest.Status.String()).
			Msg("No data harvested, skipping upload")
		return result
	}

	result.Load = w.loader.Load(ctx, result.Harvest.Table)
	if result.Load.Status != errors.StatusOK {
		return result
	}

	if w.publisher != nil {
		result.Published = w.publish(log, result.RunID, result.Harvest.Table.Rows)
	}
	return result
}

// message is what downstream consumers receive for each uploaded row
type message struct {
	RunID string `json:"run_id"`
	models.Row
}

func (w *Worker) publish(log *logger.Logger, runID string, rows []models.Row) int {
	published := 0
	for _, row := range rows {
		data, err := json.Marshal(message{RunID: runID, Row: row})
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode row")
			continue
		}
		if err := w.publisher.Publish(publishKey, data); err != nil {
			log.Error().Err(err).Msg("Failed to publish row")
			continue
		}
		published++
	}

	if err := w.publisher.TrimStreams(); err != nil {
		log.Error().Err(err).Msg("Failed to trim streams")
	}

	log.Info().Int("published", published).Msg("Rows published")
	return published
}
