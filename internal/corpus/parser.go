// Package corpus implements the line-oriented, gzip-transparent text format
// reader/writer shared by the corpus, candidate, statistics, and score
// files. It is the "external collaborator" described in the purpose
// section: a thin cursor API the core engine drives, never the other way
// around.
package corpus

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Parser is a cursor over one corpus-format file: lines split into
// tab-delimited "sections", sections split into space-delimited "tokens".
// Transparently gzip-decodes when the filename ends in .gz.
type Parser struct {
	sepTokens   byte
	sepSections byte // 0 if sections are not configured

	file   io.Closer
	reader *bufio.Reader

	currentLine string
	sections    []string
	offsetToken int
	offsetSect  int
	nSepWords   int

	nFactors  int
	nSections int
	eof       bool

	lastLineBytes int
}

// Open builds a Parser over filename. sepTokens separates tokens within a
// section (or within the whole line, if sepSections is 0); sepFactors is
// only used to compute the reported factor count of the first token;
// sepSections, if nonzero, additionally splits each line into sections
// before token-splitting. Leading empty lines are skipped, so the cursor
// starts on the first non-empty line.
func Open(filename string, sepTokens, sepFactors, sepSections byte) (*Parser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("corpus: opening %s: %w", filename, err)
	}

	var rc io.ReadCloser = f
	if strings.EqualFold(filepath.Ext(filename), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("corpus: opening gzip stream %s: %w", filename, err)
		}
		rc = struct {
			io.Reader
			io.Closer
		}{gz, closerFunc(func() error {
			gz.Close()
			return f.Close()
		})}
	}

	p := &Parser{
		sepTokens:   sepTokens,
		sepSections: sepSections,
		file:        rc,
		reader:      bufio.NewReaderSize(rc, 64*1024),
	}

	p.NextLine()
	for !p.eof && p.currentLine == "" {
		p.NextLine()
	}
	if !p.eof {
		firstToken := p.currentLine
		if idx := strings.IndexByte(firstToken, sepTokens); idx >= 0 {
			firstToken = firstToken[:idx]
		}
		p.nFactors = strings.Count(firstToken, string(sepFactors)) + 1
		if sepSections != 0 {
			p.nSections = strings.Count(p.currentLine, string(sepSections)) + 1
		}
	}
	return p, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NextLine advances to the next line, splitting it into sections if
// configured. Sets EndOfFile() true once the underlying stream is
// exhausted.
func (p *Parser) NextLine() {
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		p.eof = true
		return
	}
	p.lastLineBytes = len(line)
	line = strings.TrimRight(line, "\r\n")
	p.currentLine = line
	p.nSepWords = strings.Count(line, string(p.sepTokens)) + 1
	p.offsetToken = 0
	p.offsetSect = 0
	if p.sepSections != 0 {
		p.sections = strings.Split(line, string(p.sepSections))
	} else {
		p.sections = nil
	}
}

// NextToken returns the next unread token on the current line.
func (p *Parser) NextToken() string {
	rest := p.currentLine[p.offsetToken:]
	idx := strings.IndexByte(rest, p.sepTokens)
	if idx < 0 {
		p.offsetToken = len(p.currentLine) + 1
		return rest
	}
	p.offsetToken += idx + 1
	return rest[:idx]
}

// NextSection returns the next unread tab-delimited section, itself split
// into tokens.
func (p *Parser) NextSection() []string {
	if p.offsetSect >= len(p.sections) {
		return nil
	}
	s := p.sections[p.offsetSect]
	p.offsetSect++
	if s == "" {
		return nil
	}
	return strings.Split(s, string(p.sepTokens))
}

// LastLineBytes reports the byte length (including its terminating newline,
// if any) of the most recently read line, for byte-based progress tracking.
func (p *Parser) LastLineBytes() int { return p.lastLineBytes }

// EndOfFile reports whether there are no more lines to read.
func (p *Parser) EndOfFile() bool { return p.eof }

// NumberOfTokens returns the token count of the current line.
func (p *Parser) NumberOfTokens() int { return p.nSepWords }

// NumberOfFactors returns the factor count of the first token of the first
// non-empty line.
func (p *Parser) NumberOfFactors() int { return p.nFactors }

// NumberOfSections returns the section count of the first non-empty line (0
// if sections were not configured).
func (p *Parser) NumberOfSections() int { return p.nSections }

// Close releases the underlying file handle.
func (p *Parser) Close() error { return p.file.Close() }
