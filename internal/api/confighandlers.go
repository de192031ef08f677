package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcmnet/dicom-conf-core/internal/confstore"
	"github.com/dcmnet/dicom-conf-core/internal/notify"
)

// handleListDevices returns the name and UUID of every configured device.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.store.ListDevices(r.Context())
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device configuration document.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	doc, err := s.store.GetNode(r.Context(), confstore.DevicePath(name))
	if err != nil {
		if errors.Is(err, confstore.ErrNodeNotFound) {
			writeNotFound(w, "device not found: "+name)
			return
		}
		s.logger.Error("failed to load device", "device", name, "error", err)
		writeInternalError(w, "failed to load device")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleSaveDevice persists a device configuration document.
//
// The document's dicomDeviceName must match the URL name (or be absent,
// in which case it is filled in). The response is the stamped, persisted
// form of the document.
func (s *Server) handleSaveDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if docName, ok := doc["dicomDeviceName"].(string); ok && docName != name {
		writeBadRequest(w, "dicomDeviceName does not match URL device name")
		return
	}
	doc["dicomDeviceName"] = name

	path := confstore.DevicePath(name)
	stamped, err := s.store.PersistNode(r.Context(), path, doc)
	if err != nil {
		if errors.Is(err, confstore.ErrInvalidDocument) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("failed to persist device", "device", name, "error", err)
		writeInternalError(w, "failed to persist device")
		return
	}

	s.announceChange(notify.OpPersist, name, path)
	writeJSON(w, http.StatusOK, stamped)
}

// handleDeleteDevice removes a device configuration document.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path := confstore.DevicePath(name)

	if err := s.store.RemoveNode(r.Context(), path); err != nil {
		if errors.Is(err, confstore.ErrNodeNotFound) {
			writeNotFound(w, "device not found: "+name)
			return
		}
		s.logger.Error("failed to delete device", "device", name, "error", err)
		writeInternalError(w, "failed to delete device")
		return
	}

	s.announceChange(notify.OpDelete, name, path)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "deviceName": name})
}

// handleReconfigureDevice asks a managed device to reload its
// configuration via the MQTT bus.
func (s *Server) handleReconfigureDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// The device must exist before a reload makes sense.
	if _, err := s.store.GetNode(r.Context(), confstore.DevicePath(name)); err != nil {
		if errors.Is(err, confstore.ErrNodeNotFound) {
			writeNotFound(w, "device not found: "+name)
			return
		}
		s.logger.Error("failed to load device", "device", name, "error", err)
		writeInternalError(w, "failed to load device")
		return
	}

	if s.notify == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "mqtt bus not connected")
		return
	}
	if err := s.notify.Reconfigure(r.Context(), name); err != nil {
		s.logger.Error("failed to request reconfigure", "device", name, "error", err)
		writeInternalError(w, "failed to request reconfigure")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"status": "requested", "deviceName": name})
}

// handleSchemas returns the raw schema bundle consumed by the editor UI.
func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	data, err := s.schemas.LoadSchemas(r.Context())
	if err != nil {
		s.logger.Error("failed to load schema bundle", "error", err)
		writeInternalError(w, "failed to load schemas")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // Best-effort write to response
}

// handleGetTransferCapabilities returns the shared transfer capability node.
func (s *Server) handleGetTransferCapabilities(w http.ResponseWriter, r *http.Request) {
	s.getAuxNode(w, r, confstore.TransferCapabilitiesPath)
}

// handleSaveTransferCapabilities replaces the shared transfer capability node.
func (s *Server) handleSaveTransferCapabilities(w http.ResponseWriter, r *http.Request) {
	s.saveAuxNode(w, r, confstore.TransferCapabilitiesPath)
}

// handleGetMetadata returns the deployment metadata node.
func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	s.getAuxNode(w, r, confstore.MetadataPath)
}

// handleSaveMetadata replaces the deployment metadata node.
func (s *Server) handleSaveMetadata(w http.ResponseWriter, r *http.Request) {
	s.saveAuxNode(w, r, confstore.MetadataPath)
}

// getAuxNode reads one of the fixed auxiliary configuration nodes.
func (s *Server) getAuxNode(w http.ResponseWriter, r *http.Request, path string) {
	doc, err := s.store.GetNode(r.Context(), path)
	if err != nil {
		if errors.Is(err, confstore.ErrNodeNotFound) {
			writeNotFound(w, "node not found: "+path)
			return
		}
		s.logger.Error("failed to load node", "path", path, "error", err)
		writeInternalError(w, "failed to load node")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// saveAuxNode replaces one of the fixed auxiliary configuration nodes.
func (s *Server) saveAuxNode(w http.ResponseWriter, r *http.Request, path string) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	stamped, err := s.store.PersistNode(r.Context(), path, doc)
	if err != nil {
		if errors.Is(err, confstore.ErrInvalidDocument) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("failed to persist node", "path", path, "error", err)
		writeInternalError(w, "failed to persist node")
		return
	}

	s.announceChange(notify.OpPersist, "", path)
	writeJSON(w, http.StatusOK, stamped)
}

// handleGetNode returns the configuration document at an arbitrary path.
//
// Query parameters:
//   - path: absolute configuration path (required)
func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeBadRequest(w, "path query parameter is required")
		return
	}
	if err := confstore.ValidatePath(path); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	doc, err := s.store.GetNode(r.Context(), path)
	if err != nil {
		if errors.Is(err, confstore.ErrNodeNotFound) {
			writeNotFound(w, "node not found: "+path)
			return
		}
		s.logger.Error("failed to load node", "path", path, "error", err)
		writeInternalError(w, "failed to load node")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlePathByUUID resolves a node UUID to its configuration path.
func (s *Server) handlePathByUUID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	path, err := s.store.PathByUUID(r.Context(), id)
	if err != nil {
		if errors.Is(err, confstore.ErrUUIDNotFound) {
			writeNotFound(w, "no node with uuid "+id)
			return
		}
		s.logger.Error("failed to resolve uuid", "uuid", id, "error", err)
		writeInternalError(w, "failed to resolve uuid")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"uuid": id, "path": path})
}

// handleExport streams the entire configuration tree as one document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tree, err := s.store.ExportFull(r.Context())
	if err != nil {
		s.logger.Error("failed to export configuration", "error", err)
		writeInternalError(w, "failed to export configuration")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="configuration.json"`)
	writeJSON(w, http.StatusOK, tree)
}

// handleImport replaces the entire configuration tree with an uploaded
// export document.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var tree map[string]any
	if err := json.NewDecoder(r.Body).Decode(&tree); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.store.ImportFull(r.Context(), tree); err != nil {
		s.logger.Error("failed to import configuration", "error", err)
		writeInternalError(w, "failed to import configuration")
		return
	}

	s.announceChange(notify.OpImport, "", confstore.ConfigurationRoot)
	writeJSON(w, http.StatusOK, map[string]any{"status": "imported"})
}
