package interview

import (
	"context"
	"fmt"
	"sync"
)

// ReportSink is write-once storage for rendered reports. Put returns the
// canonical location of the stored object so it can be recorded on the
// session and echoed back to callers.
type ReportSink interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// MemorySink collects reports in a map for development and tests.
type MemorySink struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{objects: make(map[string][]byte)}
}

var _ ReportSink = (*MemorySink)(nil)

// Put stores the report bytes under the given path.
func (s *MemorySink) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path required", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[path] = buf
	return "memory://" + path, nil
}

// Object returns a stored report (test helper).
func (s *MemorySink) Object(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	return data, ok
}

// Len reports the number of stored objects (test helper).
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
