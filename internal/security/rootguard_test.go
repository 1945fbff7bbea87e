package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRootGuard_ValidateName(t *testing.T) {
	guard, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open guard: %v", err)
	}
	defer guard.Close()

	tests := []struct {
		name      string
		input     string
		shouldErr bool
		errType   error
	}{
		// Valid names
		{"blob name", "a1b2c3d4e5f60718293a4b5c6d7e8f90.dat", false, nil},
		{"snapshot name", "backup.state", false, nil},
		{"salt file", ".salt", false, nil},

		// Invalid names
		{"empty", "", true, ErrEmptyName},
		{"slash", "sub/file.dat", true, ErrInvalidName},
		{"backslash", `sub\file.dat`, true, ErrInvalidName},
		{"parent traversal", "..", true, ErrInvalidName},
		{"traversal with slash", "../escape.dat", true, ErrInvalidName},
		{"absolute path", "/etc/passwd", true, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.ValidateName(tt.input)
			if tt.shouldErr {
				if err == nil {
					t.Errorf("Expected error for %q, got none", tt.input)
					return
				}
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("Expected %v for %q, got %v", tt.errType, tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %q: %v", tt.input, err)
			}
		})
	}
}

func TestRootGuard_CreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storage", "nested")

	guard, err := Open(dir)
	if err != nil {
		t.Fatalf("Failed to open guard: %v", err)
	}
	defer guard.Close()

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Storage root should exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Storage root should be a directory")
	}
}

func TestRootGuard_AtomicWriteReadRemove(t *testing.T) {
	guard, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open guard: %v", err)
	}
	defer guard.Close()

	data := []byte("ciphertext token")
	if err := guard.WriteFileAtomic("blob.dat", data, 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	// No temp file left behind
	if _, err := guard.Stat("blob.dat.tmp"); !os.IsNotExist(err) {
		t.Errorf("Temp file should not survive: %v", err)
	}

	got, err := guard.ReadFile("blob.dat")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Content mismatch: got %q", got)
	}

	// Overwrite replaces content
	if err := guard.WriteFileAtomic("blob.dat", []byte("v2"), 0600); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	got, _ = guard.ReadFile("blob.dat")
	if string(got) != "v2" {
		t.Errorf("Overwrite content mismatch: got %q", got)
	}

	if err := guard.Remove("blob.dat"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := guard.Stat("blob.dat"); !os.IsNotExist(err) {
		t.Error("File should be gone after Remove")
	}
}

func TestRootGuard_RejectsEscape(t *testing.T) {
	guard, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open guard: %v", err)
	}
	defer guard.Close()

	if err := guard.WriteFileAtomic("../escape.dat", []byte("x"), 0600); err == nil {
		t.Error("Write outside root should fail")
	}
	if _, err := guard.ReadFile("/etc/passwd"); err == nil {
		t.Error("Read outside root should fail")
	}
}
