package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	analyticsTypes "github.com/turtacn/CaseRisk-Intelligence/internal/domain/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/entity"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	commonTypes "github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeEntityRepo struct {
	mu       sync.Mutex
	entities []*entity.Entity
	finds    int
}

func (f *fakeEntityRepo) FindByID(ctx context.Context, id commonTypes.ID) (*entity.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	for _, e := range f.entities {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, appErrors.New(appErrors.ErrCodeEntityNotFound, "entity not found")
}

func (f *fakeEntityRepo) ListPage(ctx context.Context, offset, limit int) ([]*entity.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset >= len(f.entities) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.entities) {
		end = len(f.entities)
	}
	return f.entities[offset:end], nil
}

func (f *fakeEntityRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.entities)), nil
}

// fakeCorpusRepo keys canned corpora on the full entity name, which the
// locator always sends as the first search term.
type fakeCorpusRepo struct {
	mu      sync.Mutex
	corpora map[string][]*caserecord.CaseRecord
	fail    map[string]error
}

func (f *fakeCorpusRepo) FindByID(ctx context.Context, id commonTypes.ID) (*caserecord.CaseRecord, error) {
	return nil, appErrors.New(appErrors.ErrCodeNotFound, "not implemented in fake")
}

func (f *fakeCorpusRepo) SearchTitle(ctx context.Context, terms []string) ([]*caserecord.CaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[terms[0]]; ok {
		return nil, err
	}
	return f.corpora[terms[0]], nil
}

type fakeRecordStore struct {
	mu      sync.Mutex
	records map[commonTypes.ID]*analyticsTypes.Record
	upserts int
	gets    int
	failAll error
}

func (f *fakeRecordStore) Upsert(ctx context.Context, rec *analyticsTypes.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	f.upserts++
	stored := *rec
	now := time.Now().UTC()
	if prev, ok := f.records[rec.EntityID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.ComputedAt = now
	f.records[rec.EntityID] = &stored
	rec.CreatedAt = stored.CreatedAt
	rec.ComputedAt = stored.ComputedAt
	return nil
}

func (f *fakeRecordStore) GetByEntityID(ctx context.Context, entityID commonTypes.ID) (*analyticsTypes.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	rec, ok := f.records[entityID]
	if !ok {
		return nil, appErrors.New(appErrors.ErrCodeAnalyticsNotFound, "analytics record not found")
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeRecordStore) DeleteByEntityID(ctx context.Context, entityID commonTypes.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, entityID)
	return nil
}

// fakeCache is a map-backed redis.Cache that round-trips values through
// JSON, matching the real implementation's semantics.
type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

func (c *fakeCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
	loader func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *fakeCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	return 0, nil
}

func (c *fakeCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

type fakeMutex struct {
	mu      *sync.Mutex
	locks   *int
	unlocks *int
	tallyMu *sync.Mutex
}

func (m *fakeMutex) Lock(ctx context.Context) error {
	m.mu.Lock()
	m.tallyMu.Lock()
	*m.locks++
	m.tallyMu.Unlock()
	return nil
}

func (m *fakeMutex) TryLock(ctx context.Context) (bool, error) {
	if m.mu.TryLock() {
		return true, nil
	}
	return false, nil
}

func (m *fakeMutex) Unlock(ctx context.Context) error {
	m.tallyMu.Lock()
	*m.unlocks++
	m.tallyMu.Unlock()
	m.mu.Unlock()
	return nil
}

func (m *fakeMutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) { return true, nil }

func (m *fakeMutex) TTL(ctx context.Context) (time.Duration, error) { return 0, nil }

// fakeLockFactory hands out real per-name mutexes so concurrent sweep
// workers exercise genuine serialization.
type fakeLockFactory struct {
	mu      sync.Mutex
	mutexes map[string]*sync.Mutex
	locks   int
	unlocks int
}

func newFakeLockFactory() *fakeLockFactory {
	return &fakeLockFactory{mutexes: make(map[string]*sync.Mutex)}
}

func (f *fakeLockFactory) NewMutex(name string, opts ...redis.LockOption) redis.DistributedLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.mutexes[name]
	if !ok {
		m = &sync.Mutex{}
		f.mutexes[name] = m
	}
	return &fakeMutex{mu: m, locks: &f.locks, unlocks: &f.unlocks, tallyMu: &f.mu}
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*kafka.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg *kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

type serviceFixture struct {
	svc       *Service
	entities  *fakeEntityRepo
	corpora   *fakeCorpusRepo
	records   *fakeRecordStore
	cache     *fakeCache
	locks     *fakeLockFactory
	publisher *fakePublisher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		entities: &fakeEntityRepo{},
		corpora: &fakeCorpusRepo{
			corpora: make(map[string][]*caserecord.CaseRecord),
			fail:    make(map[string]error),
		},
		records:   &fakeRecordStore{records: make(map[commonTypes.ID]*analyticsTypes.Record)},
		cache:     newFakeCache(),
		locks:     newFakeLockFactory(),
		publisher: &fakePublisher{},
	}
	f.svc = NewService(ServiceParams{
		Entities:  f.entities,
		Cases:     f.corpora,
		Records:   f.records,
		Cache:     f.cache,
		Locks:     f.locks,
		Publisher: f.publisher,
		Logger:    logging.NewNopLogger(),
		Analytics: config.AnalyticsConfig{
			CacheTTL:      time.Minute,
			LockTTL:       5 * time.Second,
			PublishEvents: true,
		},
		Worker: config.WorkerConfig{Concurrency: 2, PageSize: 2},
	})
	return f
}

func (f *serviceFixture) addEntity(id commonTypes.ID, name string, cases ...*caserecord.CaseRecord) {
	f.entities.entities = append(f.entities.entities, &entity.Entity{
		ID: id, Name: name, Kind: entity.KindPerson,
	})
	if len(cases) > 0 {
		f.corpora.corpora[name] = cases
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestComputeForEntity_NoCases(t *testing.T) {
	f := newServiceFixture(t)
	f.addEntity("e1", "Kwame Mensah")

	rec, err := f.svc.ComputeForEntity(context.Background(), "e1")
	require.NoError(t, err)

	assert.Zero(t, rec.RiskScore)
	assert.Equal(t, commonTypes.RiskLow, rec.RiskLevel)
	assert.Equal(t, commonTypes.RiskLow, rec.FinancialRiskLevel)
	assert.Equal(t, analyticsTypes.NoPrimarySubjectMatter, rec.PrimarySubjectMatter)
	assert.Zero(t, rec.SuccessRate)
	assert.Zero(t, rec.CaseCount)
	assert.Zero(t, rec.CaseComplexityScore)
	assert.Equal(t, []string{}, rec.RiskFactors)
	assert.Equal(t, 1, f.records.upserts)
}

func TestComputeForEntity_FullComputation(t *testing.T) {
	f := newServiceFixture(t)
	f.addEntity("e1", "Kwame Mensah",
		&caserecord.CaseRecord{
			Title:     "Republic v Mensah",
			Summary:   "fraud involving GHS 600,000",
			AreaOfLaw: "Criminal Law",
			Status:    "Resolved - Convicted",
		},
		&caserecord.CaseRecord{
			Title:   "Mensah v Standard Bank",
			Summary: "breach of contract over an agreement, damages of GHS 500,000 claimed",
			Status:  "Resolved",
		},
	)

	rec, err := f.svc.ComputeForEntity(context.Background(), "e1")
	require.NoError(t, err)

	assert.Greater(t, rec.RiskScore, 0)
	assert.LessOrEqual(t, rec.RiskScore, 100)
	assert.Contains(t, rec.RiskFactors, "criminal: fraud")
	assert.Equal(t, 1100000.0, rec.TotalMonetaryAmount)
	assert.Equal(t, 550000.0, rec.AverageCaseValue)
	assert.Equal(t, commonTypes.RiskCritical, rec.FinancialRiskLevel)
	assert.Contains(t, rec.FinancialTerms, "Damages")
	assert.Equal(t, 2, rec.CaseCount)
	assert.Equal(t, 4, rec.CaseComplexityScore)
	assert.False(t, rec.ComputedAt.IsZero())

	// lock held and released around the write
	assert.Equal(t, 1, f.locks.locks)
	assert.Equal(t, 1, f.locks.unlocks)

	// cache refreshed
	var cached analyticsTypes.Record
	require.NoError(t, f.cache.Get(context.Background(), cacheKey("e1"), &cached))
	assert.Equal(t, rec.RiskScore, cached.RiskScore)

	// event published, keyed by entity id
	require.Len(t, f.publisher.messages, 1)
	msg := f.publisher.messages[0]
	assert.Equal(t, kafka.TopicAnalyticsEntityUpdated, msg.Topic)
	assert.Equal(t, []byte("e1"), msg.Key)
}

func TestComputeForEntity_Idempotent(t *testing.T) {
	f := newServiceFixture(t)
	f.addEntity("e1", "Kwame Mensah",
		textCase("Mensah fraud and assault with GHS 250,000 at stake"),
		textCase("Mensah land dispute over the lease"),
	)

	first, err := f.svc.ComputeForEntity(context.Background(), "e1")
	require.NoError(t, err)
	second, err := f.svc.ComputeForEntity(context.Background(), "e1")
	require.NoError(t, err)

	a, b := *first, *second
	a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
	a.ComputedAt, b.ComputedAt = time.Time{}, time.Time{}
	assert.Equal(t, a, b)
}

func TestComputeForEntity_UnknownEntity(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.ComputeForEntity(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCodeEntityNotFound, appErrors.GetCode(err))
	assert.Zero(t, f.records.upserts)
}

func TestComputeForEntity_PublishDisabled(t *testing.T) {
	f := newServiceFixture(t)
	f.svc.cfg.PublishEvents = false
	f.addEntity("e1", "Kwame Mensah", textCase("Mensah v Republic"))

	_, err := f.svc.ComputeForEntity(context.Background(), "e1")
	require.NoError(t, err)
	assert.Empty(t, f.publisher.messages)
}

func TestComputeForEntity_PublishFailureIsNonFatal(t *testing.T) {
	f := newServiceFixture(t)
	f.publisher.err = appErrors.New(appErrors.ErrCodeMessagingError, "broker down")
	f.addEntity("e1", "Kwame Mensah", textCase("Mensah v Republic"))

	_, err := f.svc.ComputeForEntity(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.records.upserts)
}

func TestGetForEntity(t *testing.T) {
	f := newServiceFixture(t)
	f.addEntity("e1", "Kwame Mensah", textCase("Mensah v Republic"))

	_, err := f.svc.ComputeForEntity(context.Background(), "e1")
	require.NoError(t, err)

	// compute refreshed the cache, so the read path never touches the store
	rec, err := f.svc.GetForEntity(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, commonTypes.ID("e1"), rec.EntityID)
	assert.Zero(t, f.records.gets)

	// cold cache falls through to the store and repopulates
	require.NoError(t, f.cache.Delete(context.Background(), cacheKey("e1")))
	rec, err = f.svc.GetForEntity(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, commonTypes.ID("e1"), rec.EntityID)
	assert.Equal(t, 1, f.records.gets)

	_, err = f.svc.GetForEntity(context.Background(), "never-computed")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCodeAnalyticsNotFound, appErrors.GetCode(err))
}

func TestComputeForAllEntities(t *testing.T) {
	f := newServiceFixture(t)
	f.addEntity("e1", "Kwame Mensah", textCase("Mensah fraud trial"))
	f.addEntity("e2", "Akua Asante", textCase("Asante land dispute"))
	f.addEntity("e3", "Yaw Boateng", textCase("Boateng divorce petition"))
	f.addEntity("e4", "Ama Serwaa", textCase("Serwaa debt recovery"))
	f.addEntity("e5", "Kofi Adjei", textCase("Adjei bribery inquiry"))

	result, err := f.svc.ComputeForAllEntities(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 5, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.Len(t, f.records.records, 5)
}

func TestComputeForAllEntities_IsolatesFailures(t *testing.T) {
	f := newServiceFixture(t)
	f.addEntity("e1", "Kwame Mensah", textCase("Mensah fraud trial"))
	f.addEntity("e2", "Akua Asante")
	f.addEntity("e3", "Yaw Boateng", textCase("Boateng divorce petition"))
	f.corpora.fail["Akua Asante"] = appErrors.New(appErrors.ErrCodeCaseQueryFailed, "store offline")

	result, err := f.svc.ComputeForAllEntities(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, commonTypes.ID("e2"), result.Failures[0].EntityID)

	// the failed entity produced no record; the others did
	_, err = f.records.GetByEntityID(context.Background(), "e2")
	require.Error(t, err)
	_, err = f.records.GetByEntityID(context.Background(), "e1")
	require.NoError(t, err)
	_, err = f.records.GetByEntityID(context.Background(), "e3")
	require.NoError(t, err)
}

func TestComputeForAllEntities_Cancellation(t *testing.T) {
	f := newServiceFixture(t)
	f.addEntity("e1", "Kwame Mensah")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.svc.ComputeForAllEntities(ctx)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCodeSweepAborted, appErrors.GetCode(err))
	assert.Zero(t, result.Processed)
}

func TestComputeForAllEntities_Empty(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.ComputeForAllEntities(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
}
