package fileutil_test

// Notes:
// - The Write/Close error branches in WriteTempFile and WriteFileAtomic are
//   not tested because triggering disk write failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-pms2pass/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "valid extension pdf",
			extension: "pdf",
			wantErr:   nil,
		},
		{
			name:      "valid extension csv",
			extension: "csv",
			wantErr:   nil,
		},
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "forward slash path traversal",
			extension: "../etc/passwd",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "backslash path traversal",
			extension: "..\\windows\\system32",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "null byte injection",
			extension: "pdf\x00exe",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := []byte("%PDF-1.4 stub")
	path, cleanup, err := fileutil.WriteTempFile(content, "pdf")
	if err != nil {
		t.Fatalf("WriteTempFile() unexpected error: %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("path = %q, want .pdf suffix", path)
	}

	got, err := os.ReadFile(path) // #nosec G304 -- test-created path
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content = %q, want %q", got, content)
	}

	cleanup()
	if fileutil.FileExists(path) {
		t.Error("cleanup() did not remove the file")
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, _, err := fileutil.WriteTempFile([]byte("x"), "")
	if !errors.Is(err, fileutil.ErrExtensionEmpty) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionEmpty", err)
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Temp-then-rename publication
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes file with content and permissions", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.pdf")
		data := []byte("final document")

		if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
		}

		got, err := os.ReadFile(path) // #nosec G304 -- test-created path
		if err != nil {
			t.Fatalf("reading published file: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("content = %q, want %q", got, data)
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.pdf")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := fileutil.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
		}

		got, _ := os.ReadFile(path) // #nosec G304 -- test-created path
		if string(got) != "new" {
			t.Errorf("content = %q, want %q", got, "new")
		}
	})

	t.Run("leaves no temp file behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.pdf")
		if err := fileutil.WriteFileAtomic(path, []byte("data"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("directory entries = %v, want only out.pdf", names)
		}
	})

	t.Run("missing directory fails without partial output", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.pdf")
		if err := fileutil.WriteFileAtomic(path, []byte("data"), 0o644); err == nil {
			t.Fatal("WriteFileAtomic() expected error for missing directory")
		}
		if fileutil.FileExists(path) {
			t.Error("partial file exists after failed write")
		}
	})
}

// ---------------------------------------------------------------------------
// TestReadFileCapped - Size-gated reads
// ---------------------------------------------------------------------------

func TestReadFileCapped(t *testing.T) {
	t.Parallel()

	t.Run("reads file within cap", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "small.csv")
		data := []byte("a,b,c\n1,2,3\n")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := fileutil.ReadFileCapped(path, 1024)
		if err != nil {
			t.Fatalf("ReadFileCapped() unexpected error: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("content = %q, want %q", got, data)
		}
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "big.csv")
		if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 128), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := fileutil.ReadFileCapped(path, 64)
		if !errors.Is(err, fileutil.ErrFileTooLarge) {
			t.Errorf("ReadFileCapped() error = %v, want ErrFileTooLarge", err)
		}
	})

	t.Run("zero cap disables the limit", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "any.csv")
		if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 128), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := fileutil.ReadFileCapped(path, 0); err != nil {
			t.Errorf("ReadFileCapped() unexpected error: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fileutil.ReadFileCapped(filepath.Join(t.TempDir(), "absent.csv"), 1024)
		if err == nil {
			t.Fatal("ReadFileCapped() expected error for missing file")
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath - Path predicates
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
	if fileutil.FileExists(filepath.Join(dir, "absent.txt")) {
		t.Error("FileExists() = true for missing file")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists() = true for directory")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"default", false},
		{"./layout.yml", true},
		{"../shared/config.yml", true},
		{"/abs/path.csv", true},
		{`C:\exports\today.csv`, true},
		{"my-config", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.in); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
