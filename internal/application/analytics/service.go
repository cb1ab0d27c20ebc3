package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	analyticsTypes "github.com/turtacn/CaseRisk-Intelligence/internal/domain/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/entity"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	commonTypes "github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// compute triggers, recorded on the per-entity metrics.
const (
	triggerManual = "manual"
	triggerSweep  = "sweep"
)

const defaultSweepPageSize = 100

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg *kafka.Message) error
}

// SweepFailure records one entity whose computation failed during a sweep.
type SweepFailure struct {
	EntityID commonTypes.ID `json:"entity_id"`
	Reason   string         `json:"reason"`
}

// SweepResult tallies one corpus-wide sweep.
type SweepResult struct {
	Processed int            `json:"processed"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Failures  []SweepFailure `json:"failures,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// ServiceParams carries the dependencies of Service.  Cache, Locks,
// Publisher and Metrics are optional; Vocabulary defaults to
// DefaultVocabulary when nil.
type ServiceParams struct {
	Entities   entity.Repository
	Cases      caserecord.Repository
	Records    analyticsTypes.Repository
	Vocabulary *Vocabulary
	Cache      redis.Cache
	Locks      redis.LockFactory
	Publisher  EventPublisher
	Logger     logging.Logger
	Metrics    *prometheus.AppMetrics
	Analytics  config.AnalyticsConfig
	Worker     config.WorkerConfig
}

// Service orchestrates the per-entity analytics computation: corpus
// retrieval, concurrent signal aggregation, record composition, and the
// atomic upsert, plus the corpus-wide sweep.
type Service struct {
	entities  entity.Repository
	locator   *Locator
	records   analyticsTypes.Repository
	vocab     *Vocabulary
	cache     redis.Cache
	locks     redis.LockFactory
	publisher EventPublisher
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
	cfg       config.AnalyticsConfig
	worker    config.WorkerConfig
}

func NewService(p ServiceParams) *Service {
	vocab := p.Vocabulary
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	logger := p.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		entities:  p.Entities,
		locator:   NewLocator(p.Cases, logger),
		records:   p.Records,
		vocab:     vocab,
		cache:     p.Cache,
		locks:     p.Locks,
		publisher: p.Publisher,
		logger:    logger.Named("analytics"),
		metrics:   p.Metrics,
		cfg:       p.Analytics,
		worker:    p.Worker,
	}
}

// ComputeForEntity recomputes and persists the analytics record for one
// entity.  The write replaces any prior record wholesale; re-running over an
// unchanged corpus yields an identical record.
func (s *Service) ComputeForEntity(ctx context.Context, entityID commonTypes.ID) (*analyticsTypes.Record, error) {
	ent, err := s.entities.FindByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return s.computeEntity(ctx, ent, triggerManual)
}

// GetForEntity returns the latest computed record for an entity, served from
// cache when possible.  Returns ANA_001 when the entity has never been
// computed.
func (s *Service) GetForEntity(ctx context.Context, entityID commonTypes.ID) (*analyticsTypes.Record, error) {
	if s.cache == nil {
		return s.records.GetByEntityID(ctx, entityID)
	}

	loaded := false
	var rec analyticsTypes.Record
	err := s.cache.GetOrSet(ctx, cacheKey(entityID), &rec, s.cfg.CacheTTL,
		func(ctx context.Context) (interface{}, error) {
			loaded = true
			return s.records.GetByEntityID(ctx, entityID)
		})
	if err != nil {
		return nil, err
	}
	prometheus.RecordCacheAccess(s.metrics, "analytics", !loaded)
	return &rec, nil
}

// ComputeForAllEntities sweeps every entity through ComputeForEntity with a
// bounded worker pool.  One entity's failure never aborts the sweep; the
// result tallies processed, succeeded and failed counts with per-entity
// failure detail.  Cancellation between entities leaves already-committed
// records intact and returns ANA_004 with the partial tally.
func (s *Service) ComputeForAllEntities(ctx context.Context) (*SweepResult, error) {
	started := time.Now()
	pageSize := s.worker.PageSize
	if pageSize < 1 {
		pageSize = defaultSweepPageSize
	}
	concurrency := s.worker.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	result := &SweepResult{}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
	)
	finish := func(sweepErr error) (*SweepResult, error) {
		wg.Wait()
		result.Duration = time.Since(started)
		prometheus.RecordSweep(s.metrics, result.Succeeded, result.Failed, result.Duration)
		s.logger.Info("sweep finished",
			logging.Int("processed", result.Processed),
			logging.Int("succeeded", result.Succeeded),
			logging.Int("failed", result.Failed),
			logging.Duration("duration", result.Duration),
		)
		return result, sweepErr
	}

	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return finish(appErrors.Wrap(err, appErrors.ErrCodeSweepAborted, "sweep aborted"))
		}
		page, err := s.entities.ListPage(ctx, offset, pageSize)
		if err != nil {
			return finish(appErrors.Wrap(err, appErrors.ErrCodeSweepAborted, "failed to list entities"))
		}
		if len(page) == 0 {
			break
		}

		for _, ent := range page {
			if err := ctx.Err(); err != nil {
				return finish(appErrors.Wrap(err, appErrors.ErrCodeSweepAborted, "sweep aborted"))
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(e *entity.Entity) {
				defer wg.Done()
				defer func() { <-sem }()

				_, err := s.computeEntity(ctx, e, triggerSweep)
				mu.Lock()
				defer mu.Unlock()
				result.Processed++
				if err != nil {
					result.Failed++
					result.Failures = append(result.Failures, SweepFailure{
						EntityID: e.ID,
						Reason:   err.Error(),
					})
					s.logger.Warn("entity computation failed during sweep",
						logging.String("entity_id", e.ID.String()), logging.Err(err))
					return
				}
				result.Succeeded++
			}(ent)
		}

		if len(page) < pageSize {
			break
		}
		offset += len(page)
	}
	return finish(nil)
}

// computeEntity holds the per-entity mutex across locate, aggregate and
// upsert so concurrent recomputations of the same entity cannot interleave.
func (s *Service) computeEntity(ctx context.Context, ent *entity.Entity, trigger string) (rec *analyticsTypes.Record, err error) {
	started := time.Now()
	caseCount := 0
	defer func() {
		prometheus.RecordEntityCompute(s.metrics, trigger, err == nil, caseCount, time.Since(started))
	}()

	if s.locks != nil {
		var opts []redis.LockOption
		if s.cfg.LockTTL > 0 {
			opts = append(opts, redis.WithLockTTL(s.cfg.LockTTL))
		}
		mutex := s.locks.NewMutex("entity:"+ent.ID.String(), opts...)
		if err = mutex.Lock(ctx); err != nil {
			return nil, err
		}
		defer func() {
			if unlockErr := mutex.Unlock(context.WithoutCancel(ctx)); unlockErr != nil {
				s.logger.Warn("failed to release entity lock",
					logging.String("entity_id", ent.ID.String()), logging.Err(unlockErr))
			}
		}()
	}

	cases, err := s.locator.Locate(ctx, ent.DisplayName())
	if err != nil {
		return nil, err
	}
	caseCount = len(cases)

	rec = s.composeRecord(ent.ID, cases)
	if err = s.records.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	s.refreshCache(ctx, rec)
	s.publishUpdated(ctx, rec)

	s.logger.Info("analytics computed",
		logging.String("entity_id", ent.ID.String()),
		logging.String("trigger", trigger),
		logging.Int("cases", caseCount),
		logging.Int("risk_score", rec.RiskScore),
		logging.String("risk_level", string(rec.RiskLevel)),
	)
	return rec, nil
}

// composeRecord fans the four corpus aggregations out concurrently; each
// goroutine writes a disjoint set of record fields, so no further
// synchronization is needed beyond the WaitGroup.
func (s *Service) composeRecord(entityID commonTypes.ID, cases []*caserecord.CaseRecord) *analyticsTypes.Record {
	rec := analyticsTypes.NewZeroRecord(entityID)
	if len(cases) == 0 {
		return rec
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		rec.RiskScore, rec.RiskLevel, rec.RiskFactors = ScoreRisk(s.vocab, cases)
	}()
	go func() {
		defer wg.Done()
		rec.TotalMonetaryAmount, rec.AverageCaseValue, rec.FinancialRiskLevel = AssessFinancialImpact(cases)
		rec.FinancialTerms = ExtractFinancialTerms(s.vocab, cases)
	}()
	go func() {
		defer wg.Done()
		rec.PrimarySubjectMatter, rec.SubjectMatterCategories = ClassifySubjectMatter(s.vocab, cases)
		rec.LegalIssues = ExtractLegalIssues(s.vocab, cases)
	}()
	go func() {
		defer wg.Done()
		rec.SuccessRate = SuccessRate(s.vocab, cases)
	}()
	wg.Wait()

	rec.CaseCount = len(cases)
	rec.CaseComplexityScore = analyticsTypes.ComplexityScore(len(cases))
	return rec
}

// refreshCache stores the freshly computed record; cache unavailability is
// logged and never fails the computation.
func (s *Service) refreshCache(ctx context.Context, rec *analyticsTypes.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(rec.EntityID), rec, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to refresh analytics cache",
			logging.String("entity_id", rec.EntityID.String()), logging.Err(err))
	}
}

// publishUpdated emits the analytics.entity.updated event; publish failure
// is logged and never fails the computation.
func (s *Service) publishUpdated(ctx context.Context, rec *analyticsTypes.Record) {
	if s.publisher == nil || !s.cfg.PublishEvents {
		return
	}
	msg, err := kafka.NewEntityUpdatedMessage(analyticsTypes.NewEntityAnalyticsUpdatedEvent(rec))
	if err == nil {
		err = s.publisher.Publish(ctx, msg)
	}
	if err != nil {
		s.logger.Warn("failed to publish analytics event",
			logging.String("entity_id", rec.EntityID.String()), logging.Err(err))
	}
}

func cacheKey(entityID commonTypes.ID) string {
	return "analytics:entity:" + entityID.String()
}
