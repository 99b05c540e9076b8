package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"sentinel/internal/bus"
	"sentinel/internal/catalog"
	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/notifications"
	"sentinel/internal/reconcile"
	"sentinel/internal/simulate"
	"sentinel/internal/supervisor"
)

// Daemon coordinates the background services and enforces
// single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *catalog.Store
	registry   *fleet.Registry
	states     *fleet.StateMap
	supervisor *supervisor.Supervisor
	scanner    *reconcile.Scanner
	engine     *simulate.Engine
	eventBus   *bus.Bus
	notifier   notifications.Service
	logPath    string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Deps carries the daemon's collaborators.
type Deps struct {
	Config     *config.Config
	Logger     *slog.Logger
	Store      *catalog.Store
	Registry   *fleet.Registry
	States     *fleet.StateMap
	Supervisor *supervisor.Supervisor
	Scanner    *reconcile.Scanner
	Engine     *simulate.Engine
	Bus        *bus.Bus
	Notifier   notifications.Service
}

// CameraStatus summarizes one camera for the CLI.
type CameraStatus struct {
	ID        string
	Name      string
	Status    fleet.Status
	Since     time.Time
	Recording bool
}

// Status represents daemon runtime information.
type Status struct {
	Running           bool
	Cameras           []CameraStatus
	EventCount        int
	UnreadCount       int
	CatalogPath       string
	LockFilePath      string
	SimulationEnabled bool
}

// New constructs a daemon with initialized dependencies.
func New(deps Deps) (*Daemon, error) {
	if deps.Config == nil || deps.Store == nil || deps.Registry == nil || deps.States == nil ||
		deps.Supervisor == nil || deps.Scanner == nil || deps.Bus == nil {
		return nil, errors.New("daemon requires config, store, fleet, supervisor, scanner, and bus")
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(deps.Config)
	}

	lockPath := filepath.Join(deps.Config.Paths.LogDir, "sentineld.lock")
	return &Daemon{
		cfg:        deps.Config,
		logger:     logging.NewComponentLogger(deps.Logger, "daemon"),
		store:      deps.Store,
		registry:   deps.Registry,
		states:     deps.States,
		supervisor: deps.Supervisor,
		scanner:    deps.Scanner,
		engine:     deps.Engine,
		eventBus:   deps.Bus,
		notifier:   deps.Notifier,
		logPath:    filepath.Join(deps.Config.Paths.LogDir, "sentinel.log"),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and brings the services up: mirror the
// fleet into the catalog, reconcile on-disk recordings, start camera
// supervision, then the simulation engine when enabled.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another sentinel daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if err := d.registry.Mirror(d.ctx, d.store); err != nil {
		d.teardownAfterStartFailure()
		return fmt.Errorf("mirror fleet: %w", err)
	}

	report, err := d.scanner.Scan(d.ctx)
	if err != nil {
		d.teardownAfterStartFailure()
		return fmt.Errorf("reconcile recordings: %w", err)
	}
	if report.Inserted > 0 || report.Corrupt > 0 {
		d.logger.Info("startup reconciliation adjusted catalog",
			logging.Int("inserted", report.Inserted),
			logging.Int("corrupt", report.Corrupt))
	}

	d.supervisor.StartAll(d.ctx)

	if d.cfg.Simulation.Enabled && d.engine != nil {
		if err := d.engine.Start(d.ctx); err != nil {
			d.teardownAfterStartFailure()
			return fmt.Errorf("start simulation: %w", err)
		}
	}

	d.running.Store(true)
	d.logger.Info("sentinel daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("cameras", d.registry.Len()))
	if err := d.notifier.NotifyDaemonStarted(d.ctx, d.registry.Len()); err != nil {
		d.logger.Warn("start notification failed", logging.Error(err))
	}
	return nil
}

func (d *Daemon) teardownAfterStartFailure() {
	if d.cancel != nil {
		d.cancel()
	}
	_ = d.lock.Unlock()
	d.ctx = nil
	d.cancel = nil
}

// Stop stops background services and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.engine != nil {
		d.engine.Stop()
	}
	d.supervisor.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("sentinel daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.eventBus != nil {
		_ = d.eventBus.Close()
	}
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg.Notifications.NtfyTopic == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	status := Status{
		Running:           d.running.Load(),
		CatalogPath:       d.store.Path(),
		LockFilePath:      d.lockPath,
		SimulationEnabled: d.cfg.Simulation.Enabled,
	}

	for _, cam := range d.registry.All() {
		state := d.states.Get(cam.ID)
		connection, since := state.Status()
		status.Cameras = append(status.Cameras, CameraStatus{
			ID:        cam.ID,
			Name:      cam.Name,
			Status:    connection,
			Since:     since,
			Recording: state.Recording(),
		})
	}

	total, err := d.store.GetCount(ctx, nil)
	if err != nil {
		return status, fmt.Errorf("count events: %w", err)
	}
	status.EventCount = total

	unread := false
	unreadCount, err := d.store.GetCount(ctx, &unread)
	if err != nil {
		return status, fmt.Errorf("count unread events: %w", err)
	}
	status.UnreadCount = unreadCount
	return status, nil
}
