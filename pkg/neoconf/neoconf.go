// Package neoconf parses the semicolon-delimited key=value records build
// scripts use for lightweight settings.
package neoconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	RecordSeparator   = ';'
	KeyValueSeparator = '='
	DefaultMaxEntries = 1 << 16
)

var (
	ErrMalformedEntry = errors.New("neoconf: malformed config entry")
	ErrEmpty          = errors.New("neoconf: no valid config entries")
	ErrUnreadable     = errors.New("neoconf: config unreadable")
	ErrAllocation     = errors.New("neoconf: too many config entries")
)

// Entry is one key/value pair. Position in the result is its only identity.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Skipped records a malformed record that was left out of the result.
type Skipped struct {
	Index  int    `json:"index"`
	Record string `json:"record"`
	Err    error  `json:"-"`
}

type Result struct {
	Entries []Entry   `json:"entries"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Lookup returns the value of the last entry named key.
func (r Result) Lookup(key string) (string, bool) {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Key == key {
			return r.Entries[i].Value, true
		}
	}
	return "", false
}

// Map collapses entries into a map, later keys overriding earlier ones.
func (r Result) Map() map[string]string {
	out := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Key] = e.Value
	}
	return out
}

type Parser struct {
	logger     zerolog.Logger
	maxEntries int
}

type Option func(*Parser)

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

func WithMaxEntries(n int) Option {
	return func(p *Parser) { p.maxEntries = n }
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: log.Logger, maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse splits contents into records. Blank records are ignored; malformed
// ones are logged and reported in Result.Skipped.
func (p *Parser) Parse(contents string) (Result, error) {
	var res Result
	for i, raw := range strings.Split(contents, string(RecordSeparator)) {
		record := strings.TrimSpace(raw)
		if record == "" {
			continue
		}
		entry, err := parseRecord(record)
		if err != nil {
			p.logger.Error().Int("index", i).Msgf("Invalid Config-Value pair: %s", record)
			res.Skipped = append(res.Skipped, Skipped{Index: i, Record: record, Err: err})
			continue
		}
		if len(res.Entries) >= p.maxEntries {
			return Result{}, fmt.Errorf("%w: limit %d", ErrAllocation, p.maxEntries)
		}
		res.Entries = append(res.Entries, entry)
	}
	if len(res.Entries) == 0 {
		return res, ErrEmpty
	}
	return res, nil
}

// ParseFile reads path from fsys and parses it.
func (p *Parser) ParseFile(fsys afero.Fs, path string) (Result, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("config read failed")
		return Result{}, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return p.Parse(string(data))
}

// ParseArgs collects every key=value argument after the program name.
// Other arguments are not config and are ignored.
func (p *Parser) ParseArgs(argv []string) (Result, error) {
	var res Result
	for i := 1; i < len(argv); i++ {
		if !strings.ContainsRune(argv[i], KeyValueSeparator) {
			continue
		}
		entry, err := parseRecord(argv[i])
		if err != nil {
			p.logger.Warn().Int("index", i).Msgf("Invalid Config-Value argument: %s", argv[i])
			res.Skipped = append(res.Skipped, Skipped{Index: i, Record: argv[i], Err: err})
			continue
		}
		if len(res.Entries) >= p.maxEntries {
			return Result{}, fmt.Errorf("%w: limit %d", ErrAllocation, p.maxEntries)
		}
		res.Entries = append(res.Entries, entry)
	}
	if len(res.Entries) == 0 {
		return res, ErrEmpty
	}
	return res, nil
}

func parseRecord(record string) (Entry, error) {
	key, value, found := strings.Cut(record, string(KeyValueSeparator))
	if !found {
		return Entry{}, fmt.Errorf("%w: missing %q in %q", ErrMalformedEntry, KeyValueSeparator, record)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return Entry{}, fmt.Errorf("%w: empty key or value in %q", ErrMalformedEntry, record)
	}
	return Entry{Key: key, Value: value}, nil
}

// Parse uses a parser with the global logger.
func Parse(contents string) (Result, error) {
	return NewParser().Parse(contents)
}

// ParseFile uses a parser with the global logger.
func ParseFile(fsys afero.Fs, path string) (Result, error) {
	return NewParser().ParseFile(fsys, path)
}

// ParseArgs uses a parser with the global logger.
func ParseArgs(argv []string) (Result, error) {
	return NewParser().ParseArgs(argv)
}
