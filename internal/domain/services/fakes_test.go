package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"txguard-lab/internal/domain/models"
)

var errStoreDown = errors.New("store down")

// mapCache is a JSONCache backed by a map
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) GetJSON(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// recordingPublisher remembers every published event
type recordingPublisher struct {
	mu       sync.Mutex
	scans    []int64
	added    []int64
	deleted  []int64
	failWith error
}

func (p *recordingPublisher) PublishScanCompleted(_ context.Context, scan *models.Scan, _ *models.AnalysisResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scans = append(p.scans, scan.ID)
	return p.failWith
}

func (p *recordingPublisher) PublishPatternAdded(_ context.Context, pattern *models.PhishingPattern) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, pattern.ID)
	return p.failWith
}

func (p *recordingPublisher) PublishPatternDeleted(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	return p.failWith
}

// failingStore fails every call
type failingStore struct{}

func (failingStore) ListPatterns(context.Context) ([]models.PhishingPattern, error) {
	return nil, errStoreDown
}

func (failingStore) ListPatternsByType(context.Context, models.PatternType) ([]models.PhishingPattern, error) {
	return nil, errStoreDown
}

func (failingStore) AddPattern(context.Context, models.PatternDraft) (*models.PhishingPattern, error) {
	return nil, errStoreDown
}

func (failingStore) DeletePattern(context.Context, int64) (bool, error) {
	return false, errStoreDown
}

func (failingStore) AddScan(context.Context, models.ScanDraft) (*models.Scan, error) {
	return nil, errStoreDown
}

func (failingStore) ListScans(context.Context, int) ([]models.Scan, error) {
	return nil, errStoreDown
}

func (failingStore) GetScan(context.Context, int64) (*models.Scan, error) {
	return nil, errStoreDown
}

func (failingStore) DeleteScan(context.Context, int64) (bool, error) {
	return false, errStoreDown
}

func (failingStore) ScanStats(context.Context) (*models.ScanStats, error) {
	return nil, errStoreDown
}
