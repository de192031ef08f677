package confstore

import (
	"errors"
	"testing"
)

func TestDevicePathRoundTrip(t *testing.T) {
	path := DevicePath("scanner1")
	if path != "/dicomConfigurationRoot/dicomDevicesRoot/scanner1" {
		t.Errorf("DevicePath = %q", path)
	}
	if got := DeviceNameFromPath(path); got != "scanner1" {
		t.Errorf("DeviceNameFromPath = %q, want scanner1", got)
	}
}

func TestDeviceNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{DevicesRoot + "/archive", "archive"},
		{DevicesRoot + "/archive/dicomNetworkAE", ""},
		{DevicesRoot, ""},
		{TransferCapabilitiesPath, ""},
		{"/something/else", ""},
	}

	for _, tt := range tests {
		if got := DeviceNameFromPath(tt.path); got != tt.want {
			t.Errorf("DeviceNameFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"/dicomConfigurationRoot", false},
		{"/dicomConfigurationRoot/dicomDevicesRoot/scanner1", false},
		{"", true},
		{"relative/path", true},
		{"/trailing/", true},
		{"/double//segment", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidPath) {
			t.Errorf("ValidatePath(%q) error not ErrInvalidPath: %v", tt.path, err)
		}
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b/c", "/a/b"},
		{"/a", ""},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := ParentPath(tt.path); got != tt.want {
			t.Errorf("ParentPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
