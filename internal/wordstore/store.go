// Package wordstore provides read-only access to a pre-built word dataset.
//
// A Store opens the SQLite dataset once and serves every query from that
// handle. Nothing is written after Open, so a Store is safe for concurrent use.
package wordstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/bananas-dict/bananas/internal/lexicon"
	"github.com/bananas-dict/bananas/internal/logging"
	_ "modernc.org/sqlite"
)

// Dataset layout.
const (
	TableWords  = "words"
	TableMeta   = "meta"
	ColWord     = "word"
	ColDefs     = "definitions"
	MetaEncode  = "encoding"
	MetaCount   = "word_count"
	MetaBuiltAt = "built_at"
)

var (
	// ErrDatasetUnavailable is returned when the dataset file cannot be opened.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrSchemaMismatch is returned when the dataset does not have the expected layout.
	ErrSchemaMismatch = errors.New("dataset schema mismatch")
	// ErrNoWordsOfLength is returned by Sample when no headword has the requested length.
	ErrNoWordsOfLength = errors.New("no words of requested length")
)

// Store is a read-only handle to a word dataset.
type Store struct {
	path     string
	db       *sql.DB
	editions []lexicon.Edition
	columns  []string
	encoding string
	decode   lexicon.Decoder
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens the dataset at path in read-only mode and checks that it has a
// words table with a membership column for every edition.
func Open(path string, editions []lexicon.Edition, opts ...Option) (*Store, error) {
	s := &Store{
		path:     path,
		editions: slices.Clone(editions),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.editions) == 0 {
		return nil, fmt.Errorf("opening %s: no editions configured", path)
	}
	for _, e := range s.editions {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %v", path, ErrDatasetUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("opening %s: %w: is a directory", path, ErrDatasetUnavailable)
	}

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %v", path, ErrDatasetUnavailable, err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %v", path, ErrDatasetUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w: %v", path, ErrDatasetUnavailable, err)
	}
	s.db = db

	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadEncoding(); err != nil {
		db.Close()
		return nil, err
	}

	s.columns = make([]string, 0, len(s.editions)+2)
	s.columns = append(s.columns, ColWord, ColDefs)
	for _, e := range s.editions {
		s.columns = append(s.columns, e.Column)
	}

	s.logger.Info("dataset opened",
		slog.String("path", path),
		slog.String("encoding", s.encoding),
		slog.Int("editions", len(s.editions)),
	)
	return s, nil
}

// readOnlyDSN returns a file: URI for path with the path escaped, so '#' and
// '?' in directory names cannot cut off the query.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		OmitHost: true,
		RawQuery: "mode=ro&_pragma=query_only(1)",
	}
	return u.String(), nil
}

// checkSchema verifies the words table and its columns.
func (s *Store) checkSchema() error {
	rows, err := s.db.Query("PRAGMA table_info(" + TableWords + ")")
	if err != nil {
		return fmt.Errorf("reading schema: %w: %v", ErrDatasetUnavailable, err)
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scanning schema: %w: %v", ErrSchemaMismatch, err)
		}
		have[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading schema: %w: %v", ErrDatasetUnavailable, err)
	}

	if len(have) == 0 {
		return fmt.Errorf("%w: table %q not found", ErrSchemaMismatch, TableWords)
	}

	want := []string{ColWord, ColDefs}
	for _, e := range s.editions {
		want = append(want, e.Column)
	}
	for _, col := range want {
		if !have[col] {
			return fmt.Errorf("%w: column %q missing from %q", ErrSchemaMismatch, col, TableWords)
		}
	}
	return nil
}

// loadEncoding reads the definitions encoding from the meta table. Datasets
// without a meta table use the legacy encoding.
func (s *Store) loadEncoding() error {
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", TableMeta,
	).Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.encoding = lexicon.EncodingLegacy
	case err != nil:
		return fmt.Errorf("reading meta: %w: %v", ErrDatasetUnavailable, err)
	default:
		value, err := s.Meta(MetaEncode)
		if err != nil {
			return err
		}
		s.encoding = value
		if s.encoding == "" {
			s.encoding = lexicon.EncodingLegacy
		}
	}

	decode, err := lexicon.DecoderFor(s.encoding)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	s.decode = decode
	return nil
}

// Meta returns a value from the meta table, or "" if the key is absent.
func (s *Store) Meta(key string) (string, error) {
	query, args, err := sq.Select("value").From(TableMeta).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("building meta query: %w", err)
	}

	var value string
	err = s.db.QueryRow(query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading meta %s: %w", key, err)
	}
	return value, nil
}

// Exists reports whether a row with exactly this headword exists.
func (s *Store) Exists(name string) (bool, error) {
	query, args, err := sq.Select("1").From(TableWords).Where(sq.Eq{ColWord: name}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("building exists query: %w", err)
	}

	var one int
	err = s.db.QueryRow(query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %q: %w", name, err)
	}
	return true, nil
}

// Lookup returns the word with exactly this headword. A missing word is not
// an error: the stub Word for name is returned instead.
func (s *Store) Lookup(name string) (lexicon.Word, error) {
	query, args, err := sq.Select(s.columns...).From(TableWords).Where(sq.Eq{ColWord: name}).Limit(1).ToSql()
	if err != nil {
		return lexicon.Word{}, fmt.Errorf("building lookup query: %w", err)
	}

	word, err := s.scanWord(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("word not found", slog.String("word", name))
		return lexicon.Stub(name, s.editions), nil
	}
	if err != nil {
		return lexicon.Word{}, fmt.Errorf("looking up %q: %w", name, err)
	}
	return word, nil
}

// Sample returns a word chosen uniformly at random among all words whose
// headword has exactly length characters.
func (s *Store) Sample(length int) (lexicon.Word, error) {
	count, err := s.CountOfLength(length)
	if err != nil {
		return lexicon.Word{}, err
	}
	if count == 0 {
		return lexicon.Word{}, fmt.Errorf("sampling length %d: %w", length, ErrNoWordsOfLength)
	}

	offset := rand.IntN(count)
	query, args, err := sq.Select(s.columns...).
		From(TableWords).
		Where(sq.Expr("length("+ColWord+") = ?", length)).
		OrderBy(ColWord).
		Limit(1).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return lexicon.Word{}, fmt.Errorf("building sample query: %w", err)
	}

	word, err := s.scanWord(s.db.QueryRow(query, args...))
	if err != nil {
		return lexicon.Word{}, fmt.Errorf("sampling length %d: %w", length, err)
	}
	return word, nil
}

// CountOfLength returns the number of headwords with exactly length characters.
func (s *Store) CountOfLength(length int) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From(TableWords).
		Where(sq.Expr("length("+ColWord+") = ?", length)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting length %d: %w", length, err)
	}
	return count, nil
}

// Count returns the number of words in the dataset.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + TableWords).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting words: %w", err)
	}
	return count, nil
}

// scanWord reads one row selected with s.columns.
func (s *Store) scanWord(row *sql.Row) (lexicon.Word, error) {
	var (
		name string
		raw  sql.NullString
	)
	flags := make([]bool, len(s.editions))

	dest := make([]any, 0, len(s.columns))
	dest = append(dest, &name, &raw)
	for i := range flags {
		dest = append(dest, &flags[i])
	}

	if err := row.Scan(dest...); err != nil {
		return lexicon.Word{}, err
	}
	return lexicon.NewWord(name, raw.String, s.editions, flags, s.decode), nil
}

// Editions returns the editions tracked by the store.
func (s *Store) Editions() []lexicon.Edition {
	return slices.Clone(s.editions)
}

// Encoding returns the definitions encoding of the dataset.
func (s *Store) Encoding() string {
	return s.encoding
}

// Path returns the dataset path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the dataset handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
