package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// RefreshService keeps the cache warm by periodically re-fetching traffic
// and weather for every monitored area, so interactive requests rarely pay
// an upstream round trip.
type RefreshService struct {
	insights *InsightService
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewRefreshService creates a refresh service driving the given insights.
func NewRefreshService(insights *InsightService, interval time.Duration) *RefreshService {
	return &RefreshService{
		insights: insights,
		interval: interval,
	}
}

// Start begins the background refresh loop. Calling Start twice is a no-op.
func (r *RefreshService) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true
	r.stopChan = make(chan struct{})

	log.Printf("Starting periodic refresh every %v for %d areas", r.interval, len(r.insights.cfg.Areas))
	go r.loop(ctx, r.stopChan)
}

// Stop halts the refresh loop.
func (r *RefreshService) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.running = false
	close(r.stopChan)
	log.Printf("Stopped periodic refresh")
}

func (r *RefreshService) loop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Periodic refresh stopping: context canceled")
			return
		case <-stop:
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *RefreshService) refreshAll(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var failures int
	for _, area := range r.insights.cfg.Areas {
		if _, err := r.insights.TrafficFor(refreshCtx, area.Name); err != nil {
			failures++
			log.Printf("Refresh: traffic fetch failed for %s: %v", area.Name, err)
		}
		if _, err := r.insights.WeatherFor(refreshCtx, area.Name); err != nil {
			failures++
			log.Printf("Refresh: weather fetch failed for %s: %v", area.Name, err)
		}
	}

	if failures > 0 {
		log.Printf("Refresh cycle finished with %d failures", failures)
	}
}
