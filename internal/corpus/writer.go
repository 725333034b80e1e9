package corpus

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sinkWriter wraps a buffered file handle, transparently gzip-compressing
// when the target path ends in .gz.
type sinkWriter struct {
	file *os.File
	buf  *bufio.Writer
	gz   *gzip.Writer
}

func create(path string) (*sinkWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: creating %s: %w", path, err)
	}
	w := &sinkWriter{file: f, buf: bufio.NewWriter(f)}
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		w.gz = gzip.NewWriter(w.buf)
	}
	return w, nil
}

func (w *sinkWriter) WriteString(s string) error {
	var err error
	if w.gz != nil {
		_, err = w.gz.Write([]byte(s))
	} else {
		_, err = w.buf.WriteString(s)
	}
	return err
}

func (w *sinkWriter) Close() error {
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			w.file.Close()
			return err
		}
	}
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// WriteString writes content to path verbatim, gzip-compressing
// transparently when path ends in .gz. Used by the statistics and score
// writers, whose output is assembled in memory before being flushed.
func WriteString(path, content string) error {
	w, err := create(path)
	if err != nil {
		return err
	}
	if err := w.WriteString(content); err != nil {
		w.Close()
		return fmt.Errorf("corpus: writing %s: %w", path, err)
	}
	return w.Close()
}
