package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/charmbracelet/log"

	"movietime/planner"
)

func fetch(ctx context.Context, db *sql.DB, cfg Config, location string) {
	if location == "" {
		log.Fatal("No location given, set MTP_LOCATION or pass a zip code")
	}
	store := planner.NewContext()
	mf := NewMoviefone(cfg.base_url, cfg.max_distance, cfg.max_pages)
	if err := mf.CollectListings(store, location); err != nil {
		log.Fatal(err)
	}
	log.Info(fmt.Sprintf(
		"Found %d movies in %d theaters for %s",
		store.Movies.Len(), store.Theaters.Len(), store.RequestedDate.Format("Mon Jan 2"),
	))

	s := Session{location: location, max_distance: cfg.max_distance, store: store}
	if err := save_listings(ctx, db, s); err != nil {
		log.Fatal(err)
	}
	if err := vacuum(ctx, db); err != nil {
		log.Warn(err)
	}
}

func must_load(ctx context.Context, db *sql.DB) Session {
	s, err := load_session(ctx, db)
	if errors.Is(err, err_no_session) {
		log.Error(err)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
	return s
}

func pick_theaters(ctx context.Context, db *sql.DB) {
	s := must_load(ctx, db)
	now := planner.Now()
	s.store.RebuildRemaining(now)

	var options []huh.Option[string]
	for _, t := range s.store.Theaters.Values() {
		line := fmt.Sprintf("%s %s", t.Name, s_dim.Render("("+t.DistanceString()+")"))
		if !s.store.Remaining.HasTheater(t.ID()) {
			line = s_dim.Render(t.Name + " (nothing left today)")
		}
		options = append(options, huh.NewOption(line, t.ID()).Selected(slices.Contains(s.theater_ids, t.ID())))
	}
	selected := pick("Pick theaters (none picks all)", options)
	if err := save_selection(ctx, db, select_theater, selected); err != nil {
		log.Fatal(err)
	}
}

func pick_movies(ctx context.Context, db *sql.DB) {
	s := must_load(ctx, db)
	now := planner.Now()
	s.store.RebuildRemaining(now)

	movies := s.store.Movies.Values()
	slices.SortStableFunc(movies, func(a, b *planner.Movie) int {
		return planner.CompareWithoutArticles(a.Title, b.Title)
	})
	max_title_len := 0
	for _, m := range movies {
		max_title_len = max(max_title_len, len(m.Title))
	}
	title := lipgloss.NewStyle().Bold(true).Width(max_title_len + 1).Align(lipgloss.Left)

	var options []huh.Option[string]
	for _, m := range movies {
		line := fmt.Sprintf("%s %s", title.Render(m.Title), s_dur.Render(m.Footer()))
		if !s.store.Remaining.HasMovie(m.ID()) {
			line = s_dim.Render(fmt.Sprintf("%s %s", title.Render(m.Title), m.Footer()))
		}
		options = append(options, huh.NewOption(line, m.ID()).Selected(slices.Contains(s.movie_ids, m.ID())))
	}
	selected := pick("Pick movies (none picks all)", options)
	if err := save_selection(ctx, db, select_movie, selected); err != nil {
		log.Fatal(err)
	}
}

func pick(title string, options []huh.Option[string]) []string {
	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Options(options...).
				Value(&selected),
		))

	err := form.Run()
	if err != nil {
		log.Fatal(err)
	}
	return selected
}

func list_remaining(ctx context.Context, db *sql.DB) {
	s := must_load(ctx, db)
	results := s.store.RemainingShowings(s.selection(), planner.Now())
	if len(results) == 0 {
		fmt.Println(s_dim.Render("Nothing left to see."))
		return
	}

	max_title_len := 0
	for _, r := range results {
		max_title_len = max(max_title_len, len(r.Movie.Title))
	}

	l := list.New()
	for _, g := range group_by_time(results) {
		lines := list.New()
		for _, r := range g.Results {
			lines.Item(showing_line(r, s.store.Durations, max_title_len))
		}
		l.Item(s_time.Render(g.Showtime.String())).Item(lines)
	}
	fmt.Println(l)
}

// summary shows every picked theater and movie, dimming the ones with no
// showings left.
func summary(ctx context.Context, db *sql.DB) {
	s := must_load(ctx, db)
	now := planner.Now()
	s.store.RebuildRemaining(now)
	sel := s.selection()

	fmt.Println(s_time.Render(fmt.Sprintf("%s, %s", s.location, s.store.RequestedDate.Format("Monday, January 2"))))

	theaters := list.New()
	for _, t := range s.store.Theaters.Values() {
		if _, ok := sel.Theaters[t.ID()]; len(sel.Theaters) > 0 && !ok {
			continue
		}
		item := s_theater.Render(t.Name) + "\n" + t.Footer()
		if !s.store.Remaining.HasTheater(t.ID()) {
			item = s_dim.Render(t.Name + "\n" + t.Footer())
		}
		theaters.Item(item)
	}
	movies := list.New()
	for _, m := range s.store.Movies.Values() {
		if _, ok := sel.Movies[m.ID()]; len(sel.Movies) > 0 && !ok {
			continue
		}
		item := m.Title + " " + s_dur.Render(m.Footer())
		if !s.store.Remaining.HasMovie(m.ID()) {
			item = s_dim.Render(m.Title + " " + m.Footer())
		}
		movies.Item(item)
	}
	fmt.Println(list.New("Theaters", theaters, "Movies", movies))
}

// export writes the saved listings as JSON.
func export(ctx context.Context, db *sql.DB) {
	s := must_load(ctx, db)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.store); err != nil {
		log.Fatal(err)
	}
}

func main() {

	var style = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7D56F4"))

	cfg := load_config()
	log.SetLevel(cfg.log_level)
	if !cfg.now.IsZero() {
		log.Debug(fmt.Sprintf("Pretending it is %s", cfg.now.Format("Mon Jan 2 15:04")))
		planner.SetClock(func() time.Time { return cfg.now })
	}

	db, err := db_init_conn(cfg.db_driver, cfg.db_conn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()

	if len(os.Args) <= 1 {
		log.Error("Wrong execution! Use one of: f [zip], t, m, l, s, j, v")
		os.Exit(1)
	}
	action := os.Args[1]
	switch action {
	case "f":
		location := cfg.location
		if len(os.Args) == 3 {
			location = os.Args[2]
		}
		fmt.Println(style.Render("Fetching listings..."))
		fetch(ctx, db, cfg, location)
	case "t":
		fmt.Println(style.Render("Theaters:"))
		pick_theaters(ctx, db)
	case "m":
		fmt.Println(style.Render("Movies:"))
		pick_movies(ctx, db)
	case "l":
		fmt.Println(style.Render("Still to come:"))
		list_remaining(ctx, db)
	case "s":
		fmt.Println(style.Render("Summary:"))
		summary(ctx, db)
	case "j":
		export(ctx, db)
		return
	case "v":
		fmt.Println(style.Render("Vacuuming..."))
		if err := vacuum(ctx, db); err != nil {
			log.Fatal(err)
		}
	default:
		log.Error(fmt.Sprintf("Unknown action %q", action))
		os.Exit(1)
	}
	fmt.Println(style.Render("...done"))
}
