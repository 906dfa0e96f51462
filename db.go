package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"movietime/planner"
)

var db_style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E7821D"))

var err_no_session = errors.New("no saved listings, run fetch first")

// The schema only uses types and statements both sqlite and postgres accept.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY,
	location TEXT NOT NULL,
	max_distance DOUBLE PRECISION NOT NULL,
	requested_date TEXT NOT NULL,
	fetched_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS movie (
	id TEXT PRIMARY KEY,
	pos INTEGER NOT NULL,
	title TEXT NOT NULL,
	rating TEXT NOT NULL,
	running_time BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS theater (
	id TEXT PRIMARY KEY,
	pos INTEGER NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	phone TEXT NOT NULL,
	distance DOUBLE PRECISION NOT NULL,
	distance_unit TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS listing (
	id TEXT PRIMARY KEY,
	pos INTEGER NOT NULL,
	theater_id TEXT NOT NULL REFERENCES theater (id),
	movie_id TEXT NOT NULL REFERENCES movie (id)
)`,
	`CREATE TABLE IF NOT EXISTS showing (
	listing_id TEXT NOT NULL REFERENCES listing (id),
	pos INTEGER NOT NULL,
	showtime TEXT NOT NULL,
	PRIMARY KEY (listing_id, showtime)
)`,
	`CREATE TABLE IF NOT EXISTS selection (
	kind TEXT NOT NULL,
	id TEXT NOT NULL,
	pos INTEGER NOT NULL,
	PRIMARY KEY (kind, id)
)`,
}

const (
	select_theater = "theater"
	select_movie   = "movie"
)

func db_init_conn(driver, conn string) (*sql.DB, error) {
	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, fmt.Errorf("open %s database %q: %w", driver, conn, err)
	}
	if driver == "sqlite3" {
		// one writer; also keeps ":memory:" a single database
		db.SetMaxOpenConns(1)
	}
	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stm := range schema {
		if _, err := db.ExecContext(ctx, stm); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// save_listings replaces the stored listings with the ones in s.store. The
// selection is kept; vacuum drops the picks the new listings lack.
func save_listings(ctx context.Context, db *sql.DB, s Session) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"showing", "listing", "theater", "movie", "session"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO session (id, location, max_distance, requested_date, fetched_at) VALUES ($1, $2, $3, $4, $5)`,
		1,
		s.location,
		s.max_distance,
		s.store.RequestedDate.Format(time.RFC3339),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, m := range s.store.Movies.Values() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO movie (id, pos, title, rating, running_time) VALUES ($1, $2, $3, $4, $5)`,
			m.ID(), i, m.Title, m.Rating, m.RunningTime.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert movie %q: %w", m.Title, err)
		}
	}

	for i, t := range s.store.Theaters.Values() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO theater (id, pos, name, address, phone, distance, distance_unit) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID(), i, t.Name, t.Address, t.Phone, t.Distance, t.DistanceUnit,
		)
		if err != nil {
			return fmt.Errorf("insert theater %q: %w", t.Name, err)
		}
	}

	pos := 0
	for i, l := range s.store.Listings.Values() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO listing (id, pos, theater_id, movie_id) VALUES ($1, $2, $3, $4)`,
			l.ID(), i, l.TheaterID, l.MovieID,
		)
		if err != nil {
			return fmt.Errorf("insert listing %q: %w", l.ID(), err)
		}
		for _, sh := range l.Showings {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO showing (listing_id, pos, showtime) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				l.ID(), pos, sh.Showtime.LocalISOString(),
			)
			if err != nil {
				return fmt.Errorf("insert showing %q: %w", sh.ID(), err)
			}
			pos++
		}
	}

	return tx.Commit()
}

// save_selection replaces the stored picks of one kind.
func save_selection(ctx context.Context, db *sql.DB, kind string, ids []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selection WHERE kind = $1`, kind); err != nil {
		return fmt.Errorf("clear %s selection: %w", kind, err)
	}
	for i, id := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO selection (kind, id, pos) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			kind, id, i,
		)
		if err != nil {
			return fmt.Errorf("insert %s selection %q: %w", kind, id, err)
		}
	}
	return tx.Commit()
}

// load_session rebuilds the last saved listings and selection. It returns
// err_no_session when nothing was fetched yet.
func load_session(ctx context.Context, db *sql.DB) (Session, error) {
	s := Session{store: planner.NewContext()}

	var requested string
	row := db.QueryRowContext(ctx, `SELECT location, max_distance, requested_date FROM session WHERE id = $1`, 1)
	switch err := row.Scan(&s.location, &s.max_distance, &requested); {
	case errors.Is(err, sql.ErrNoRows):
		return s, err_no_session
	case err != nil:
		return s, fmt.Errorf("read session: %w", err)
	}
	date, err := time.Parse(time.RFC3339, requested)
	if err != nil {
		return s, fmt.Errorf("read session: requested date %q: %w", requested, err)
	}
	s.store.RequestedDate = date

	if err := load_movies(ctx, db, s.store); err != nil {
		return s, err
	}
	if err := load_theaters(ctx, db, s.store); err != nil {
		return s, err
	}
	if err := load_listings(ctx, db, s.store); err != nil {
		return s, err
	}

	if s.theater_ids, err = load_selection(ctx, db, select_theater); err != nil {
		return s, err
	}
	if s.movie_ids, err = load_selection(ctx, db, select_movie); err != nil {
		return s, err
	}
	return s, nil
}

func load_movies(ctx context.Context, db *sql.DB, store *planner.Context) error {
	rows, err := db.QueryContext(ctx, `SELECT id, title, rating, running_time FROM movie ORDER BY pos`)
	if err != nil {
		return fmt.Errorf("read movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m planner.Movie
		var running_time int64
		if err := rows.Scan(&m.URL, &m.Title, &m.Rating, &running_time); err != nil {
			return fmt.Errorf("read movies: %w", err)
		}
		m.RunningTime = planner.Duration(running_time)
		store.Movies.Set(&m)
	}
	return rows.Err()
}

func load_theaters(ctx context.Context, db *sql.DB, store *planner.Context) error {
	rows, err := db.QueryContext(ctx, `SELECT id, name, address, phone, distance, distance_unit FROM theater ORDER BY pos`)
	if err != nil {
		return fmt.Errorf("read theaters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t planner.Theater
		if err := rows.Scan(&t.URL, &t.Name, &t.Address, &t.Phone, &t.Distance, &t.DistanceUnit); err != nil {
			return fmt.Errorf("read theaters: %w", err)
		}
		store.Theaters.Set(&t)
	}
	return rows.Err()
}

func load_listings(ctx context.Context, db *sql.DB, store *planner.Context) error {
	rows, err := db.QueryContext(ctx, `SELECT theater_id, movie_id FROM listing ORDER BY pos`)
	if err != nil {
		return fmt.Errorf("read listings: %w", err)
	}
	var listings []*planner.Listing
	for rows.Next() {
		var theater_id, movie_id string
		if err := rows.Scan(&theater_id, &movie_id); err != nil {
			rows.Close()
			return fmt.Errorf("read listings: %w", err)
		}
		listings = append(listings, planner.NewListing(theater_id, movie_id))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read listings: %w", err)
	}

	for _, l := range listings {
		if !store.Theaters.Includes(l.TheaterID) || !store.Movies.Includes(l.MovieID) {
			return fmt.Errorf("read listings: %q refers to a missing movie or theater", l.ID())
		}
		store.AddListing(l)
	}

	rows, err = db.QueryContext(ctx, `SELECT listing_id, showtime FROM showing ORDER BY pos`)
	if err != nil {
		return fmt.Errorf("read showings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listing_id, value string
		if err := rows.Scan(&listing_id, &value); err != nil {
			return fmt.Errorf("read showings: %w", err)
		}
		l, ok := store.Listings.Get(listing_id)
		if !ok {
			log.Warn(fmt.Sprintf("Dropping showing of unknown listing %q", listing_id))
			continue
		}
		showtime, err := planner.ParseLocalISOString(value)
		if err != nil {
			log.Warn(fmt.Sprintf("Dropping showing %q: %v", value, err))
			continue
		}
		l.Showings = append(l.Showings, &planner.Showing{ListingID: l.ID(), Showtime: showtime})
	}
	return rows.Err()
}

func load_selection(ctx context.Context, db *sql.DB, kind string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT id FROM selection WHERE kind = $1 ORDER BY pos`, kind)
	if err != nil {
		return nil, fmt.Errorf("read %s selection: %w", kind, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("read %s selection: %w", kind, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// vacuum drops selected ids that no longer have a listing.
func vacuum(ctx context.Context, db *sql.DB) error {
	res, err := db.ExecContext(ctx, `DELETE FROM selection WHERE
	(kind = $1 AND id NOT IN (SELECT id FROM theater)) OR
	(kind = $2 AND id NOT IN (SELECT id FROM movie))`, select_theater, select_movie)
	if err != nil {
		return fmt.Errorf("vacuum selection: %w", err)
	}
	n, _ := res.RowsAffected()
	fmt.Println(db_style.Render(fmt.Sprintf(" - %d stale picks removed", n)))
	return nil
}
