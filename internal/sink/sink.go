// Package sink holds the destinations rendered markup is written to.
package sink

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sink replaces the contents of a named output region.
type Sink interface {
	Replace(target, markup string)
}

// Regions keeps the current markup of every region in memory.
type Regions struct {
	mu      sync.RWMutex
	regions map[string]string
}

func NewRegions() *Regions {
	return &Regions{regions: make(map[string]string)}
}

func (r *Regions) Replace(target, markup string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regions[target] = markup
}

// Get returns the markup of target and whether it was ever written.
func (r *Regions) Get(target string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	markup, ok := r.regions[target]
	return markup, ok
}

var validTarget = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileSink writes each region to <dir>/<target>.html so a static web server
// can pick it up.
type FileSink struct {
	dir    string
	logger *zap.Logger
}

func NewFileSink(dir string, logger *zap.Logger) (*FileSink, error) {
	if errMkdir := os.MkdirAll(dir, 0o755); errMkdir != nil {
		return nil, errors.Wrapf(errMkdir, "Failed to create output dir %s", dir)
	}
	return &FileSink{dir: dir, logger: logger.Named("sink")}, nil
}

// Path returns the file a target is written to.
func (f *FileSink) Path(target string) string {
	return filepath.Join(f.dir, target+".html")
}

func (f *FileSink) Replace(target, markup string) {
	if errWrite := f.write(target, markup); errWrite != nil {
		f.logger.Error("Failed to write region", zap.String("target", target), zap.Error(errWrite))
	}
}

func (f *FileSink) write(target, markup string) error {
	if !validTarget.MatchString(target) {
		return errors.Errorf("invalid target name %q", target)
	}
	tmp, errTmp := os.CreateTemp(f.dir, "."+target+"-*.tmp")
	if errTmp != nil {
		return errors.Wrap(errTmp, "Failed to create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, errWrite := tmp.WriteString(markup); errWrite != nil {
		_ = tmp.Close()
		return errors.Wrap(errWrite, "Failed to write temp file")
	}
	if errClose := tmp.Close(); errClose != nil {
		return errors.Wrap(errClose, "Failed to close temp file")
	}
	if errChmod := os.Chmod(tmp.Name(), 0o644); errChmod != nil {
		return errors.Wrap(errChmod, "Failed to chmod temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), f.Path(target)), "Failed to move region into place")
}

// Multi fans a write out to several sinks in order.
type Multi []Sink

func (m Multi) Replace(target, markup string) {
	for _, s := range m {
		s.Replace(target, markup)
	}
}
