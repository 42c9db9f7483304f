package workerpool

import (
	"errors"
	"runtime"
	"sync"

	"github.com/renholt/go-worker-pool/core"
	"github.com/renholt/go-worker-pool/network"
	"github.com/renholt/go-worker-pool/platform"
)

// Version of the library.
const Version = "1.0.0"

// ErrAlreadyInitialized is returned by Init when the process-wide
// runtime already exists.
var ErrAlreadyInitialized = errors.New("workerpool: runtime already initialized")

// Runtime owns one pool and its collaborators: logger, HTTP client and
// platform probe. Construct it once and shut it down once; the pool and
// client stay valid in between.
type Runtime struct {
	cfg    Config
	logger core.Logger
	pool   *core.Pool
	client *network.Client
	info   platform.Info

	refMu   sync.Mutex
	nextRef TaskRef
	refs    map[TaskRef]*refEntry
}

// NewRuntime validates cfg and brings up the pool and collaborators.
func NewRuntime(cfg Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := core.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := core.NewDefaultLogger(level)

	size := cfg.PoolSize
	if size == 0 {
		size = runtime.NumCPU()
	}

	pool, err := core.New(size,
		core.WithName(cfg.PoolName),
		core.WithLogger(logger),
		core.WithThreadNameHook(platform.SetThreadName),
	)
	if err != nil {
		return nil, err
	}

	client := network.NewClient(
		network.WithUserAgent(cfg.UserAgent),
		network.WithConnectTimeout(cfg.ConnectTimeout),
		network.WithRequestTimeout(cfg.RequestTimeout),
		network.WithLogger(logger),
	)

	info := platform.Probe()
	logger.Info("runtime initialized",
		core.F("version", Version),
		core.F("platform", info.String()),
		core.F("workers", size),
	)

	return &Runtime{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		client: client,
		info:   info,
		refs:   make(map[TaskRef]*refEntry),
	}, nil
}

// Shutdown gracefully stops the pool. Safe to call more than once.
func (r *Runtime) Shutdown() {
	r.pool.Shutdown()
	r.logger.Info("runtime shut down")
}

// ForceShutdown stops the pool immediately, cancelling pending tasks.
func (r *Runtime) ForceShutdown() {
	r.pool.ForceShutdown()
	r.logger.Info("runtime force shut down")
}

// Pool returns the runtime's task pool.
func (r *Runtime) Pool() *core.Pool { return r.pool }

// HTTPClient returns the runtime's HTTP client.
func (r *Runtime) HTTPClient() *network.Client { return r.client }

// Logger returns the runtime's logger.
func (r *Runtime) Logger() core.Logger { return r.logger }

// Platform returns the probe taken at initialization.
func (r *Runtime) Platform() platform.Info { return r.info }

// Config returns the configuration the runtime was built from.
func (r *Runtime) Config() Config { return r.cfg }

// =============================================================================
// Process-wide singleton
// =============================================================================

var (
	global   *Runtime
	globalMu sync.Mutex
)

// Init creates the process-wide runtime. It returns
// ErrAlreadyInitialized if one exists.
func Init(cfg Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return ErrAlreadyInitialized
	}
	rt, err := NewRuntime(cfg)
	if err != nil {
		return err
	}
	global = rt
	return nil
}

// Get returns the process-wide runtime. It panics if Init has not been
// called.
func Get() *Runtime {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		panic("workerpool: runtime not initialized, call Init first")
	}
	return global
}

// Initialized reports whether the process-wide runtime exists.
func Initialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global != nil
}

// Shutdown stops and releases the process-wide runtime. A no-op when
// Init was never called.
func Shutdown() {
	globalMu.Lock()
	rt := global
	global = nil
	globalMu.Unlock()

	if rt != nil {
		rt.Shutdown()
	}
}
