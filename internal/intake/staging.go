package intake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Staging is the per-submission scratch area for uploaded images and decoded
// signatures. Every submission gets its own directory so concurrent requests
// cannot clobber each other's files.
type Staging struct {
	root          string
	uploadsDir    string
	signaturesDir string
}

// NewStaging creates the staging directories for one submission under
// rootDir (the system temp dir when empty).
func NewStaging(rootDir, submissionID string) (*Staging, error) {
	if rootDir == "" {
		rootDir = os.TempDir()
	}
	root := filepath.Join(rootDir, "submission-"+submissionID)
	s := &Staging{
		root:          root,
		uploadsDir:    filepath.Join(root, "uploads"),
		signaturesDir: filepath.Join(root, "signatures"),
	}
	for _, dir := range []string{s.uploadsDir, s.signaturesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create staging dir %s: %w", dir, err)
		}
	}
	return s, nil
}

// Root returns the submission's staging directory.
func (s *Staging) Root() string { return s.root }

// Cleanup removes the submission's staging directory and everything in it.
func (s *Staging) Cleanup() error {
	return os.RemoveAll(s.root)
}

// SaveUpload persists one uploaded image under the given name and returns
// its path.
func (s *Staging) SaveUpload(name string, r io.Reader) (string, error) {
	return saveTo(s.uploadsDir, name, r)
}

// SaveSignature persists one decoded signature image and returns its path.
func (s *Staging) SaveSignature(name string, data []byte) (string, error) {
	path := filepath.Join(s.signaturesDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write signature %s: %w", name, err)
	}
	return path, nil
}

func saveTo(dir, name string, r io.Reader) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return path, nil
}

// SanitizeFilename reduces a client-supplied filename to a safe basename:
// path separators are stripped and anything outside [A-Za-z0-9._-] becomes
// an underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "file"
	}
	return out
}
