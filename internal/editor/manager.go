package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dcmnet/dicom-conf-core/internal/schema"
)

// Logger defines the logging interface used by the Manager.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DeviceRecord is one manageable unit: its configuration document, the
// last-persisted snapshot, and the derived dirtiness flag.
//
// Config stays nil until the device is first opened; LastPersisted is
// refreshed on every successful load or save. The document is exclusively
// owned by its record: no other record or global state may reference it.
type DeviceRecord struct {
	DeviceName    string
	DeviceUUID    string
	Config        map[string]any
	LastPersisted map[string]any
	Modified      bool
}

// Manager owns the device list, the shared schema bundle, and the
// editing lifecycle: lazy config loading, dirtiness tracking, save,
// cancel, create, delete, and reconfigure.
//
// The Manager is driven from a single frontend goroutine; only the
// dirtiness recomputation triggered by the Monitor runs concurrently and
// is guarded by a mutex.
type Manager struct {
	store     Persistence
	schemaSrc SchemaSource
	notifier  Notifier
	confirmer Confirmer
	monitor   *Monitor
	logger    Logger

	mu       sync.Mutex
	schemas  *schema.Set
	devices  []*DeviceRecord
	selected *SelectedNode
}

// ManagerOpts carries the collaborators of a Manager. Store and Schemas
// are required; the rest default to no-ops.
type ManagerOpts struct {
	Store     Persistence
	Schemas   SchemaSource
	Notifier  Notifier
	Confirmer Confirmer
	Debounce  time.Duration
}

// NewManager creates a device configuration manager. Call Load before
// using it.
func NewManager(opts ManagerOpts) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("editor: persistence collaborator is required")
	}
	if opts.Schemas == nil {
		return nil, fmt.Errorf("editor: schema source is required")
	}

	m := &Manager{
		store:     opts.Store,
		schemaSrc: opts.Schemas,
		notifier:  opts.Notifier,
		confirmer: opts.Confirmer,
		monitor:   NewMonitor(opts.Debounce),
		logger:    noopLogger{},
	}
	if m.notifier == nil {
		m.notifier = noopNotifier{}
	}
	if m.confirmer == nil {
		m.confirmer = alwaysConfirm{}
	}
	m.monitor.Subscribe(m.recomputeModified)
	return m, nil
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// Monitor exposes the change monitor so collection editors and extension
// operations share the manager's debounce window.
func (m *Manager) Monitor() *Monitor { return m.monitor }

// Schemas returns the loaded schema bundle, or nil before Load.
func (m *Manager) Schemas() *schema.Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schemas
}

// Load fetches the device list and the schema bundle. Failures are
// surfaced through the notifier; a partial load (devices without
// schemas) leaves the manager usable for browsing only.
func (m *Manager) Load(ctx context.Context) error {
	refs, err := m.store.ListDevices(ctx)
	if err != nil {
		m.notifier.Notify(LevelDanger, "Could not load the list of devices", err)
		return fmt.Errorf("loading device list: %w", err)
	}

	raw, err := m.schemaSrc.LoadSchemas(ctx)
	if err != nil {
		m.notifier.Notify(LevelDanger, "Could not load the configuration schemas", err)
		return fmt.Errorf("loading schemas: %w", err)
	}
	set, err := schema.ParseSet(raw)
	if err != nil {
		m.notifier.Notify(LevelDanger, "Could not load the configuration schemas", err)
		return fmt.Errorf("parsing schemas: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemas = set
	m.devices = make([]*DeviceRecord, 0, len(refs))
	for _, ref := range refs {
		m.devices = append(m.devices, &DeviceRecord{
			DeviceName: ref.DeviceName,
			DeviceUUID: ref.DeviceUUID,
		})
	}
	m.selected = nil

	m.logger.Info("configuration loaded", "devices", len(m.devices))
	return nil
}

// Devices returns the current device records. The slice is a copy; the
// records are shared.
func (m *Manager) Devices() []*DeviceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*DeviceRecord, len(m.devices))
	copy(out, m.devices)
	return out
}

// Device returns the record for a device name.
func (m *Manager) Device(name string) (*DeviceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deviceLocked(name)
}

func (m *Manager) deviceLocked(name string) (*DeviceRecord, error) {
	for _, d := range m.devices {
		if d.DeviceName == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, name)
}

// OpenDevice returns the record for name, loading its configuration on
// first access. Selecting a device destroys any node selection.
func (m *Manager) OpenDevice(ctx context.Context, name string) (*DeviceRecord, error) {
	m.mu.Lock()
	dev, err := m.deviceLocked(name)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.selected = nil
	loaded := dev.Config != nil
	m.mu.Unlock()

	if loaded {
		return dev, nil
	}
	if err := m.reloadConfig(ctx, dev); err != nil {
		return nil, err
	}
	return dev, nil
}

// reloadConfig fetches a device's configuration and resets its snapshot.
// A failed load leaves the prior state untouched.
func (m *Manager) reloadConfig(ctx context.Context, dev *DeviceRecord) error {
	doc, err := m.store.LoadDeviceConfig(ctx, dev.DeviceName)
	if err != nil {
		m.notifier.Notify(LevelDanger, "Could not load device config", err)
		return fmt.Errorf("loading config for %s: %w", dev.DeviceName, err)
	}

	m.mu.Lock()
	dev.Config = doc
	dev.LastPersisted = DeepCopy(doc).(map[string]any)
	dev.Modified = false
	m.mu.Unlock()
	return nil
}

// SaveDevice persists a device's configuration. On success the store's
// returned document (with restamped bookkeeping fields) becomes both the
// live config and the new snapshot. On failure local edits stay intact.
func (m *Manager) SaveDevice(ctx context.Context, name string) error {
	m.mu.Lock()
	dev, err := m.deviceLocked(name)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if dev.Config == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s has no loaded config", ErrNotLoaded, name)
	}
	payload := DeepCopy(dev.Config).(map[string]any)
	m.mu.Unlock()

	persisted, err := m.store.SaveDeviceConfig(ctx, name, payload)
	if err != nil {
		m.notifier.Notify(LevelDanger, "Could not save device config", err)
		return fmt.Errorf("saving config for %s: %w", name, err)
	}

	m.mu.Lock()
	dev.Config = persisted
	dev.LastPersisted = DeepCopy(persisted).(map[string]any)
	dev.Modified = false
	m.mu.Unlock()

	m.notifier.Notify(LevelSuccess, "Configuration successfully saved")
	m.logger.Info("device config saved", "device", name)
	return nil
}

// CancelChanges restores a device's live config from the last-persisted
// snapshot and clears the dirtiness flag.
func (m *Manager) CancelChanges(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.deviceLocked(name)
	if err != nil {
		return err
	}
	if dev.LastPersisted == nil {
		return fmt.Errorf("%w: %s has no snapshot", ErrNotLoaded, name)
	}
	dev.Config = DeepCopy(dev.LastPersisted).(map[string]any)
	dev.Modified = false
	m.selected = nil
	return nil
}

// CreateDevice synthesizes a new device configuration from the device
// schema, names it, and persists it. Duplicate names are refused with a
// notification.
func (m *Manager) CreateDevice(ctx context.Context, name string) error {
	m.mu.Lock()
	if m.schemas == nil || m.schemas.Device == nil {
		m.mu.Unlock()
		return ErrNotLoaded
	}
	if _, err := m.deviceLocked(name); err == nil {
		m.mu.Unlock()
		m.notifier.Notify(LevelDanger, fmt.Sprintf("Device %s already exists", name))
		return fmt.Errorf("%w: %s", ErrDeviceExists, name)
	}
	deviceSchema := m.schemas.Device
	m.mu.Unlock()

	value, err := schema.CreateDefault(deviceSchema)
	if err != nil {
		return fmt.Errorf("synthesizing device config: %w", err)
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: device schema is not an object", ErrNoSchema)
	}
	doc["dicomDeviceName"] = name

	persisted, err := m.store.SaveDeviceConfig(ctx, name, doc)
	if err != nil {
		m.notifier.Notify(LevelDanger, "Could not create device", err)
		return fmt.Errorf("creating device %s: %w", name, err)
	}

	m.mu.Lock()
	m.devices = append(m.devices, &DeviceRecord{
		DeviceName:    name,
		Config:        persisted,
		LastPersisted: DeepCopy(persisted).(map[string]any),
	})
	m.mu.Unlock()

	m.logger.Info("device created", "device", name)
	return nil
}

// DeleteDevice removes a device after confirmation.
func (m *Manager) DeleteDevice(ctx context.Context, name string) error {
	prompt := fmt.Sprintf("Do you really want to delete this device (%s)?", name)
	if !m.confirmer.Confirm(prompt) {
		return nil
	}

	if err := m.store.DeleteDevice(ctx, name); err != nil {
		m.notifier.Notify(LevelDanger, "Could not delete device", err)
		return fmt.Errorf("deleting device %s: %w", name, err)
	}

	m.mu.Lock()
	for i, d := range m.devices {
		if d.DeviceName == name {
			m.devices = append(m.devices[:i], m.devices[i+1:]...)
			break
		}
	}
	m.selected = nil
	m.mu.Unlock()

	m.logger.Info("device deleted", "device", name)
	return nil
}

// ReconfigureDevice asks the managed service to reload the device's
// configuration. Fire-and-forget: the outcome is surfaced through the
// notifier only.
func (m *Manager) ReconfigureDevice(ctx context.Context, name string) {
	if err := m.store.Reconfigure(ctx, name); err != nil {
		m.notifier.Notify(LevelDanger, "The service was not able to reload the configuration", err)
		return
	}
	m.notifier.Notify(LevelSuccess, "The service has successfully reloaded the configuration")
}

// Select installs a node selection context; any prior selection is
// replaced. A nil schema is refused.
func (m *Manager) Select(node any, n *schema.Node, parent Parent, opts *schema.ViewOptions) (*SelectedNode, error) {
	sel, err := SelectNode(node, n, parent, opts)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.selected = sel
	m.mu.Unlock()
	return sel, nil
}

// Selected returns the current node selection, or nil.
func (m *Manager) Selected() *SelectedNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// ClearSelection destroys the node selection context.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	m.selected = nil
	m.mu.Unlock()
}

// recomputeModified refreshes every loaded device's dirtiness flag by
// structural comparison against its snapshot. Runs on the monitor's
// timer goroutine after each coalesced change burst.
func (m *Manager) recomputeModified() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dev := range m.devices {
		if dev.Config == nil {
			continue
		}
		dev.Modified = !DeepEqual(dev.Config, dev.LastPersisted)
	}
}

// IsModified reports whether a device's live config differs from its
// snapshot. The flag is recomputed on demand so callers see the current
// truth even mid-debounce.
func (m *Manager) IsModified(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dev, err := m.deviceLocked(name)
	if err != nil {
		return false, err
	}
	if dev.Config == nil {
		return false, nil
	}
	dev.Modified = !DeepEqual(dev.Config, dev.LastPersisted)
	return dev.Modified, nil
}
