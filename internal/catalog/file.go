package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"online-judge/internal/domain"
)

// MalformedPolicy controls what Load does with a line that fails to parse.
type MalformedPolicy string

const (
	// AbortOnMalformed fails the whole load on the first bad line.
	AbortOnMalformed MalformedPolicy = "abort"
	// SkipMalformed logs the bad line and keeps loading.
	SkipMalformed MalformedPolicy = "skip"
)

// ParsePolicy maps a config value to a policy, defaulting to AbortOnMalformed.
func ParsePolicy(raw string) MalformedPolicy {
	if strings.EqualFold(raw, string(SkipMalformed)) {
		return SkipMalformed
	}
	return AbortOnMalformed
}

// FileBackend persists the catalog as a flat, append-only text file.
type FileBackend struct {
	path   string
	policy MalformedPolicy
	log    logrus.FieldLogger

	mu sync.Mutex // serializes appends to the file
}

func NewFileBackend(path string, policy MalformedPolicy, log logrus.FieldLogger) *FileBackend {
	return &FileBackend{path: path, policy: policy, log: log}
}

// Load reads every record. A missing file is an empty catalog.
func (b *FileBackend) Load(_ context.Context) ([]domain.Problem, error) {
	f, err := os.Open(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		b.log.WithField("path", b.path).Info("catalog file absent, starting empty")
		return []domain.Problem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	problems := []domain.Problem{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := DecodeRecord(line)
		if err != nil {
			merr := &domain.MalformedRecordError{Line: lineNo, Text: line, Err: err}
			if b.policy == SkipMalformed {
				b.log.WithError(merr).WithField("line", lineNo).Warn("skipping malformed catalog record")
				continue
			}
			return nil, merr
		}
		problems = append(problems, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return problems, nil
}

// Append writes one record at the end of the file, creating it if needed.
func (b *FileBackend) Append(_ context.Context, p domain.Problem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open catalog for append: %w", err)
	}
	if _, err := f.WriteString(EncodeRecord(p)); err != nil {
		f.Close()
		return fmt.Errorf("append catalog record: %w", err)
	}
	return f.Close()
}
