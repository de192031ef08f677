package confstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcmnet/dicom-conf-core/internal/editor"
)

// Reconfigurer asks the managed service to reload a device's
// configuration out-of-band. Typically backed by the MQTT notifier.
type Reconfigurer interface {
	Reconfigure(ctx context.Context, deviceName string) error
}

// EditorAdapter exposes a Store as the editor's persistence collaborator,
// translating between device names and configuration paths.
type EditorAdapter struct {
	store  Store
	reconf Reconfigurer
}

// NewEditorAdapter wires a Store (and an optional Reconfigurer) into the
// editor persistence interface. A nil reconfigurer makes Reconfigure a
// reported failure rather than a silent no-op.
func NewEditorAdapter(store Store, reconf Reconfigurer) *EditorAdapter {
	return &EditorAdapter{store: store, reconf: reconf}
}

// ListDevices returns the configured device names and UUIDs.
func (a *EditorAdapter) ListDevices(ctx context.Context) ([]editor.DeviceRef, error) {
	entries, err := a.store.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]editor.DeviceRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, editor.DeviceRef{
			DeviceName: e.DeviceName,
			DeviceUUID: e.DeviceUUID,
		})
	}
	return refs, nil
}

// LoadDeviceConfig fetches a device's configuration document.
func (a *EditorAdapter) LoadDeviceConfig(ctx context.Context, deviceName string) (map[string]any, error) {
	doc, err := a.store.GetNode(ctx, DevicePath(deviceName))
	if err != nil {
		if errors.Is(err, ErrNodeNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceName)
		}
		return nil, err
	}
	return doc, nil
}

// SaveDeviceConfig persists a device configuration document and returns
// its stamped form.
func (a *EditorAdapter) SaveDeviceConfig(ctx context.Context, deviceName string, doc map[string]any) (map[string]any, error) {
	return a.store.PersistNode(ctx, DevicePath(deviceName), doc)
}

// DeleteDevice removes a device's configuration node.
func (a *EditorAdapter) DeleteDevice(ctx context.Context, deviceName string) error {
	err := a.store.RemoveNode(ctx, DevicePath(deviceName))
	if errors.Is(err, ErrNodeNotFound) {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceName)
	}
	return err
}

// Reconfigure forwards the reload request to the wired Reconfigurer.
func (a *EditorAdapter) Reconfigure(ctx context.Context, deviceName string) error {
	if a.reconf == nil {
		return fmt.Errorf("confstore: no reconfiguration channel wired")
	}
	return a.reconf.Reconfigure(ctx, deviceName)
}
