package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/renholt/go-worker-pool/core"
)

// StatsProvider provides pool stats snapshots.
type StatsProvider interface {
	Stats() core.Stats
}

// StatsPoller periodically exports pool Stats() snapshots into gauges.
type StatsPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]StatsProvider

	workers         *prom.GaugeVec
	activeWorkers   *prom.GaugeVec
	pendingTasks    *prom.GaugeVec
	completedTotal  *prom.GaugeVec
	failedTotal     *prom.GaugeVec
	cancelledTotal  *prom.GaugeVec
	averageDuration *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewStatsPoller creates a poller and registers its collectors.
func NewStatsPoller(reg prom.Registerer, interval time.Duration) (*StatsPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	gauge := func(name, help string) *prom.GaugeVec {
		return prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "workerpool",
			Name:      name,
			Help:      help,
		}, []string{"pool"})
	}

	p := &StatsPoller{
		interval:        interval,
		pools:           make(map[string]StatsProvider),
		workers:         gauge("pool_workers", "Live workers per pool."),
		activeWorkers:   gauge("pool_active_workers", "Workers executing a task per pool."),
		pendingTasks:    gauge("pool_pending_tasks", "Queued tasks per pool."),
		completedTotal:  gauge("pool_completed_total", "Completed task count snapshot."),
		failedTotal:     gauge("pool_failed_total", "Failed task count snapshot."),
		cancelledTotal:  gauge("pool_cancelled_total", "Cancelled task count snapshot."),
		averageDuration: gauge("pool_average_task_duration_seconds", "Running mean task duration snapshot."),
	}

	var err error
	for _, g := range []**prom.GaugeVec{
		&p.workers, &p.activeWorkers, &p.pendingTasks,
		&p.completedTotal, &p.failedTotal, &p.cancelledTotal,
		&p.averageDuration,
	} {
		if *g, err = registerCollector(reg, *g); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Register adds a pool to the polling set under the given name.
func (p *StatsPoller) Register(name string, provider StatsProvider) {
	if provider == nil {
		return
	}
	p.poolsMu.Lock()
	defer p.poolsMu.Unlock()
	p.pools[name] = provider
}

// Unregister removes a pool from the polling set.
func (p *StatsPoller) Unregister(name string) {
	p.poolsMu.Lock()
	defer p.poolsMu.Unlock()
	delete(p.pools, name)
}

// Start begins polling until Stop is called or ctx is done. A second
// Start while running is a no-op.
func (p *StatsPoller) Start(ctx context.Context) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.running {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.running = true
	go p.loop(ctx)
}

// Stop halts polling and waits for the loop to exit.
func (p *StatsPoller) Stop() {
	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.stateMu.Unlock()

	cancel()
	<-done
}

func (p *StatsPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collect()
		}
	}
}

func (p *StatsPoller) collect() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		s := provider.Stats()
		p.workers.WithLabelValues(name).Set(float64(s.Workers))
		p.activeWorkers.WithLabelValues(name).Set(float64(s.ActiveWorkers))
		p.pendingTasks.WithLabelValues(name).Set(float64(s.PendingTasks))
		p.completedTotal.WithLabelValues(name).Set(float64(s.CompletedTotal))
		p.failedTotal.WithLabelValues(name).Set(float64(s.FailedTotal))
		p.cancelledTotal.WithLabelValues(name).Set(float64(s.CancelledTotal))
		p.averageDuration.WithLabelValues(name).Set(s.AverageDuration.Seconds())
	}
}
