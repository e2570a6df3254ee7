// Package store keeps the current search's result set in an in-memory
// SQLite database so the results view can re-sort and filter without
// another network round trip. Nothing is written to disk and nothing
// survives the process.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ajoubert/newsdesk/internal/article"
)

// Sort orders for the results view.
type Sort int

const (
	SortNewest Sort = iota
	SortSource
	SortTitle
)

func (s Sort) String() string {
	switch s {
	case SortSource:
		return "source"
	case SortTitle:
		return "title"
	default:
		return "newest"
	}
}

// Next cycles to the following sort order.
func (s Sort) Next() Sort {
	switch s {
	case SortNewest:
		return SortSource
	case SortSource:
		return SortTitle
	default:
		return SortNewest
	}
}

type QueryOpts struct {
	Sources []string
	Sort    Sort
}

type Store struct {
	db *sql.DB
}

func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening memory db: %w", err)
	}
	// A :memory: database exists per connection; the pool must stay at one.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE articles (
			pos       INTEGER PRIMARY KEY,
			title     TEXT NOT NULL DEFAULT '',
			summary   TEXT NOT NULL DEFAULT '',
			source    TEXT NOT NULL DEFAULT '',
			link      TEXT NOT NULL DEFAULT '',
			published DATETIME,
			has_date  INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX idx_articles_source ON articles(source);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Replace swaps in the result set of a new search pass. Arrival order is
// kept as pos so positional title fallbacks stay stable across re-sorts.
func (s *Store) Replace(articles []article.Article) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM articles`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO articles (pos, title, summary, source, link, published, has_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range articles {
		var published any
		if a.HasDate {
			published = a.Published.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.Exec(i+1, a.Title, a.Summary, a.Source, a.Link, published, boolToInt(a.HasDate)); err != nil {
			return fmt.Errorf("inserting article %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Articles returns the stored result set in the requested order,
// optionally restricted to the named sources, along with each article's
// arrival position. Positional display fallbacks must use the returned
// positions so a record keeps its name across re-sorts.
func (s *Store) Articles(opts QueryOpts) ([]article.Article, []int, error) {
	query := `SELECT pos, title, summary, source, link, published, has_date FROM articles`
	var args []any

	if len(opts.Sources) > 0 {
		query += ` WHERE source IN (?` + strings.Repeat(",?", len(opts.Sources)-1) + `)`
		for _, src := range opts.Sources {
			args = append(args, src)
		}
	}

	switch opts.Sort {
	case SortSource:
		query += ` ORDER BY source, pos`
	case SortTitle:
		query += ` ORDER BY title, pos`
	default:
		query += ` ORDER BY has_date DESC, published DESC, pos`
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var (
		articles  []article.Article
		positions []int
	)
	for rows.Next() {
		var (
			a         article.Article
			pos       int
			published sql.NullString
			hasDate   int
		)
		if err := rows.Scan(&pos, &a.Title, &a.Summary, &a.Source, &a.Link, &published, &hasDate); err != nil {
			return nil, nil, fmt.Errorf("scanning article: %w", err)
		}
		if hasDate == 1 && published.Valid {
			if t, err := time.Parse(time.RFC3339, published.String); err == nil {
				a.Published = t
				a.HasDate = true
			}
		}
		articles = append(articles, a)
		positions = append(positions, pos)
	}
	return articles, positions, rows.Err()
}

// Sources lists the distinct display sources present in the result set.
func (s *Store) Sources() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT source FROM articles ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// Stats reports the stored article count and the number of distinct
// sources.
func (s *Store) Stats() (articles, sources int, err error) {
	err = s.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT source) FROM articles`).Scan(&articles, &sources)
	return articles, sources, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
