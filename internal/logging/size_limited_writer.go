package logging

import (
	"os"
	"sync"
)

// cappedFile appends to a log file and starts it over once it would grow
// past maxBytes.
type cappedFile struct {
	path     string
	maxBytes int64

	mu   sync.Mutex
	f    *os.File
	size int64
}

func newCappedFile(path string, maxMB int) (*cappedFile, error) {
	if maxMB <= 0 {
		maxMB = 10
	}
	w := &cappedFile{path: path, maxBytes: int64(maxMB) << 20}
	if err := w.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *cappedFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		if err := w.open(os.O_APPEND); err != nil {
			return 0, err
		}
	}
	if w.size+int64(len(p)) > w.maxBytes {
		_ = w.f.Close()
		if err := w.open(os.O_TRUNC); err != nil {
			return 0, err
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *cappedFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// open (re)opens the file with mode added to create/write-only and
// records its current size.
func (w *cappedFile) open(mode int) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		w.f = nil
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		w.f = nil
		return err
	}
	w.f = f
	w.size = info.Size()
	return nil
}
