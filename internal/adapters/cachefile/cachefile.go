// Package cachefile parses and persists the generator tool's key/value cache
// file (CMakeCache.txt).
package cachefile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	advancedSuffix = "-ADVANCED"
	stringsSuffix  = "-STRINGS"
)

// Store is one parsed cache snapshot. It is replaced wholesale after every
// configure; mutation is limited to Set on editable entries followed by Save.
type Store struct {
	entries map[string]*domain.CacheEntry
	order   []string

	// raw holds the original file lines so Save can rewrite edited values
	// in place without disturbing anything else.
	raw    []string
	lineOf map[string]int
	edited map[string]bool
	logger ports.Logger
}

// Empty returns a store with no entries, the state before the first configure.
func Empty(logger ports.Logger) *Store {
	return &Store{
		entries: make(map[string]*domain.CacheEntry),
		lineOf:  make(map[string]int),
		edited:  make(map[string]bool),
		logger:  logger,
	}
}

// Load parses the cache file at path. A missing file yields an empty store,
// not an error, since a never-configured binary directory has no cache.
func Load(path string, logger ports.Logger) (*Store, error) {
	f, err := os.Open(path) //nolint:gosec // path is the session binary directory cache
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(logger), nil
		}
		return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}
	defer func() { _ = f.Close() }()
	return Parse(f, logger)
}

// Parse reads a cache body. Malformed or unknown-typed lines are dropped
// with a reported error; they never fail the whole parse.
func Parse(r io.Reader, logger ports.Logger) (*Store, error) {
	s := Empty(logger)

	var help []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		s.raw = append(s.raw, line)

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			help = nil
		case strings.HasPrefix(trimmed, "//"):
			help = append(help, strings.TrimPrefix(trimmed, "//"))
		default:
			s.parseEntry(line, len(s.raw)-1, strings.Join(help, "\n"))
			help = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}
	return s, nil
}

// parseEntry splits KEY:TYPE=VALUE. The type tag sits between the last colon
// before the first equals sign and the equals sign itself, matching how the
// generator tool writes keys that may themselves contain colons.
func (s *Store) parseEntry(line string, lineIdx int, help string) {
	left, value, found := strings.Cut(line, "=")
	if !found {
		s.report(domain.Detail(domain.ErrCacheMalformed, "line", line))
		return
	}
	colon := strings.LastIndex(left, ":")
	if colon <= 0 {
		s.report(domain.Detail(domain.ErrCacheMalformed, "line", line))
		return
	}
	key, tag := left[:colon], left[colon+1:]

	entryType, ok := domain.ParseCacheEntryType(tag)
	if !ok {
		s.report(zerr.With(domain.Detail(domain.ErrCacheEntryType, "key", key), "type", tag))
		return
	}

	// -ADVANCED and -STRINGS internal properties annotate their base entry
	// rather than standing alone.
	if entryType == domain.CacheInternal {
		if base, isAdvanced := strings.CutSuffix(key, advancedSuffix); isAdvanced {
			if e, exists := s.entries[base]; exists {
				e.Advanced = value != "0"
				return
			}
		}
		if base, isStrings := strings.CutSuffix(key, stringsSuffix); isStrings {
			if e, exists := s.entries[base]; exists {
				e.Choices = strings.Split(value, ";")
				return
			}
		}
	}

	if _, exists := s.entries[key]; exists {
		// Keys are unique within a store; the last definition wins the
		// value, keeps the original position, and is the line Save must
		// rewrite.
		s.entries[key].Value = value
		s.entries[key].Type = entryType
		s.lineOf[key] = lineIdx
		return
	}

	s.entries[key] = &domain.CacheEntry{
		Key:      key,
		Value:    value,
		Type:     entryType,
		HelpText: help,
	}
	s.order = append(s.order, key)
	s.lineOf[key] = lineIdx
}

func (s *Store) report(err error) {
	if s.logger != nil {
		s.logger.Error(err)
	}
}

// Get returns the entry for key, if present.
func (s *Store) Get(key string) (*domain.CacheEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	copied := *e
	return &copied, true
}

// Len returns the number of parsed entries.
func (s *Store) Len() int {
	return len(s.order)
}

// Entries returns all entries in file order.
func (s *Store) Entries() []domain.CacheEntry {
	out := make([]domain.CacheEntry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.entries[key])
	}
	return out
}

// Set stages a new value for an editable entry. Static and internal entries
// are generator-tool-owned and refuse edits.
func (s *Store) Set(key, value string) error {
	e, ok := s.entries[key]
	if !ok {
		return domain.Detail(domain.ErrCacheKeyNotFound, "key", key)
	}
	if !e.Editable() {
		return domain.Detail(domain.ErrCacheEntryStatic, "key", key)
	}
	e.Value = value
	s.edited[key] = true
	return nil
}

// Save rewrites the cache file, replacing only the lines of entries that
// were explicitly edited. Everything else, Static entries included, is
// written back byte for byte.
func (s *Store) Save(path string) error {
	lines := make([]string, len(s.raw))
	copy(lines, s.raw)
	for key := range s.edited {
		e := s.entries[key]
		lines[s.lineOf[key]] = e.Key + ":" + e.Type.String() + "=" + e.Value
	}
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// Serialize writes the parsed entries in canonical form: help text lines
// first, then KEY:TYPE=VALUE. Parsing serialized output and serializing it
// again is byte-stable.
func (s *Store) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, key := range s.order {
		e := s.entries[key]
		if e.HelpText != "" {
			for _, line := range strings.Split(e.HelpText, "\n") {
				if _, err := bw.WriteString("//" + line + "\n"); err != nil {
					return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
				}
			}
		}
		if _, err := bw.WriteString(e.Key + ":" + e.Type.String() + "=" + e.Value + "\n"); err != nil {
			return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
		}
	}
	return bw.Flush()
}
