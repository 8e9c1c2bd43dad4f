package dataset

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bananas-dict/bananas/internal/lexicon"
	"github.com/bananas-dict/bananas/internal/logging"
	"github.com/bananas-dict/bananas/internal/wordstore"
	_ "modernc.org/sqlite"
)

// BuildOptions controls how a dataset is written.
type BuildOptions struct {
	Encoding string       // lexicon.EncodingLegacy (default) or lexicon.EncodingJSON
	Now      func() time.Time
	Logger   *slog.Logger
}

// Stats summarizes a built dataset.
type Stats struct {
	Words      int
	Senses     int
	PerEdition map[string]int
}

// entry accumulates the senses and memberships of one headword.
type entry struct {
	defs     []lexicon.Definition
	seen     map[lexicon.Definition]bool
	editions map[string]bool
}

// Build writes a fresh dataset to path. Senses for the same headword are
// merged across editions in first-seen order, and identical senses are kept
// once. The file is written next to path and renamed into place when
// complete.
func Build(path string, editions []lexicon.Edition, senses []Sense, opts BuildOptions) (Stats, error) {
	if opts.Encoding == "" {
		opts.Encoding = lexicon.EncodingLegacy
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if _, err := lexicon.DecoderFor(opts.Encoding); err != nil {
		return Stats{}, err
	}
	if len(editions) == 0 {
		return Stats{}, fmt.Errorf("building dataset: no editions configured")
	}

	known := make(map[string]bool, len(editions))
	for _, e := range editions {
		if err := e.Validate(); err != nil {
			return Stats{}, fmt.Errorf("building dataset: %w", err)
		}
		if known[e.ID] {
			return Stats{}, fmt.Errorf("building dataset: duplicate edition %q", e.ID)
		}
		known[e.ID] = true
	}

	entries := make(map[string]*entry)
	for i, s := range senses {
		if !known[s.Edition] {
			return Stats{}, fmt.Errorf("sense %d (%s): unknown edition %q", i, s.Word, s.Edition)
		}
		if !lexicon.ValidHeadword(s.Word) {
			return Stats{}, fmt.Errorf("sense %d: invalid headword %q", i, s.Word)
		}

		e, ok := entries[s.Word]
		if !ok {
			e = &entry{
				seen:     make(map[lexicon.Definition]bool),
				editions: make(map[string]bool),
			}
			entries[s.Word] = e
		}
		e.editions[s.Edition] = true

		def := lexicon.NewDefinition(s.Definition, s.Pos)
		if !e.seen[def] {
			e.seen[def] = true
			e.defs = append(e.defs, def)
		}
	}

	tmp := path + ".tmp"
	os.Remove(tmp)

	stats, err := write(tmp, editions, entries, opts)
	if err != nil {
		os.Remove(tmp)
		return Stats{}, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Stats{}, fmt.Errorf("moving dataset into place: %w", err)
	}

	opts.Logger.Info("dataset built",
		slog.String("path", path),
		slog.Int("words", stats.Words),
		slog.Int("senses", stats.Senses),
		slog.String("encoding", opts.Encoding),
	)
	return stats, nil
}

// write creates the tables and inserts every entry in one transaction.
func write(path string, editions []lexicon.Edition, entries map[string]*entry, opts BuildOptions) (Stats, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Stats{}, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema(editions) {
		if _, err := tx.Exec(stmt); err != nil {
			return Stats{}, fmt.Errorf("creating schema: %w", err)
		}
	}

	columns := []string{wordstore.ColWord, wordstore.ColDefs}
	for _, e := range editions {
		columns = append(columns, e.Column)
	}

	words := make([]string, 0, len(entries))
	for w := range entries {
		words = append(words, w)
	}
	slices.Sort(words)

	stats := Stats{PerEdition: make(map[string]int)}
	for _, w := range words {
		e := entries[w]
		raw, err := lexicon.Encode(opts.Encoding, e.defs)
		if err != nil {
			return Stats{}, fmt.Errorf("encoding %q: %w", w, err)
		}

		values := []any{w, raw}
		for _, ed := range editions {
			in := e.editions[ed.ID]
			values = append(values, in)
			if in {
				stats.PerEdition[ed.ID]++
			}
		}

		query, args, err := sq.Insert(wordstore.TableWords).Columns(columns...).Values(values...).ToSql()
		if err != nil {
			return Stats{}, fmt.Errorf("building insert: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return Stats{}, fmt.Errorf("inserting %q: %w", w, err)
		}

		stats.Words++
		stats.Senses += len(e.defs)
	}

	meta := sq.Insert(wordstore.TableMeta).Columns("key", "value").
		Values(wordstore.MetaEncode, opts.Encoding).
		Values(wordstore.MetaCount, strconv.Itoa(stats.Words)).
		Values(wordstore.MetaBuiltAt, opts.Now().UTC().Format(time.RFC3339))
	query, args, err := meta.ToSql()
	if err != nil {
		return Stats{}, fmt.Errorf("building meta insert: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return Stats{}, fmt.Errorf("writing meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("committing dataset: %w", err)
	}
	return stats, nil
}

// schema returns the statements that create an empty dataset.
func schema(editions []lexicon.Edition) []string {
	var cols strings.Builder
	cols.WriteString(wordstore.ColWord + " TEXT PRIMARY KEY,\n")
	cols.WriteString("\t" + wordstore.ColDefs + " TEXT NOT NULL")
	for _, e := range editions {
		cols.WriteString(",\n\t" + e.Column + " BOOLEAN NOT NULL DEFAULT 0")
	}

	return []string{
		fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", wordstore.TableWords, cols.String()),
		fmt.Sprintf("CREATE INDEX %s_length ON %s (length(%s))",
			wordstore.TableWords, wordstore.TableWords, wordstore.ColWord),
		fmt.Sprintf("CREATE TABLE %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)", wordstore.TableMeta),
	}
}
