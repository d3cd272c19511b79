package logging

import (
	"os"
	"sync"
)

// logFileSink appends to a single log file and truncates it whenever the
// next write would push the file past its byte cap. Crude but bounded: the
// orchestrator runs unattended and must never fill a disk with logs.
type logFileSink struct {
	path     string
	maxBytes int64

	mu   sync.Mutex
	file *os.File
	size int64
}

func newLogFileSink(path string, maxMB int) (*logFileSink, error) {
	if maxMB <= 0 {
		maxMB = 10
	}
	f, size, err := openSinkFile(path)
	if err != nil {
		return nil, err
	}
	return &logFileSink{
		path:     path,
		maxBytes: int64(maxMB) * 1024 * 1024,
		file:     f,
		size:     size,
	}, nil
}

func (s *logFileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		f, size, err := openSinkFile(s.path)
		if err != nil {
			return 0, err
		}
		s.file = f
		s.size = size
	}
	if s.size+int64(len(p)) > s.maxBytes {
		if err := s.truncate(); err != nil {
			return 0, err
		}
	}
	n, err := s.file.Write(p)
	s.size += int64(n)
	return n, err
}

func (s *logFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *logFileSink) truncate() error {
	if s.file != nil {
		_ = s.file.Close()
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	s.file = f
	s.size = 0
	return nil
}

func openSinkFile(path string) (*os.File, int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
