package record

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is a stored play and the currency it earned
type Entry struct {
	game.Result
	Reward int
}

// Totals is the progression of the player over every stored play
type Totals struct {
	Plays    int
	Currency int
	Stars    int // Sum of the stars of every best score
}

type Store interface {
	Record(r game.Result) error
	Load(song string, difficulty game.Difficulty) ([]Entry, error)
	Best(song string, difficulty game.Difficulty) (Entry, bool, error)
	Totals() (Totals, error)
}

type DefaultStore struct {
	Logger *slog.Logger

	db *sql.DB
}

const schema = `
create table if not exists plays
  (
	  id text not null primary key,
	  song text not null,
	  difficulty text not null,
	  seed integer,
	  score integer,
	  accuracy real,
	  stars integer,
	  max_combo integer,
	  notes integer,
	  perfect integer,
	  great integer,
	  good integer,
	  miss integer,
	  failed integer,
	  reward integer,
	  played_at integer,
	  inputs blob,
	  policy text not null default ''
  );
create index if not exists plays_song on plays (song, difficulty);
`

const columns = `id, song, difficulty, seed, score, accuracy, stars, max_combo, notes,
	perfect, great, good, miss, failed, reward, played_at, inputs, policy`

func (s *DefaultStore) log() *slog.Logger {
	if nil == s.Logger {
		return slog.Default()
	}
	return s.Logger
}

func (s *DefaultStore) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return fmt.Errorf("unable to open %v: %w", path, err)
	}
	if _, err = db.Exec(schema); nil != err {
		db.Close()
		return fmt.Errorf("unable to create schema: %w", err)
	}
	if err = migrate(db); nil != err {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

// migrate adds the columns databases from older versions lack
func migrate(db *sql.DB) error {
	var n int
	err := db.QueryRow("select count(*) from pragma_table_info('plays') where name = 'policy'").Scan(&n)
	if nil != err {
		return fmt.Errorf("unable to inspect plays: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err = db.Exec("alter table plays add column policy text not null default ''"); nil != err {
		return fmt.Errorf("unable to add policy column: %w", err)
	}
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultStore) Record(r game.Result) error {
	data, err := json.Marshal(compactInputs(r.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	reward := Reward(r.Stars, r.Difficulty, r.Failed)
	_, err = s.db.Exec("insert into plays("+columns+") values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Song, string(r.Difficulty), r.Seed, r.Score, r.Accuracy, r.Stars, r.MaxCombo, r.Notes,
		r.Tally.Perfect, r.Tally.Great, r.Tally.Good, r.Tally.Miss, r.Failed, reward, r.PlayedAt.UnixMilli(), data, r.Policy)
	if nil != err {
		return fmt.Errorf("unable to save play %v: %w", r.ID, err)
	}
	s.log().Debug("play recorded", "id", r.ID, "song", r.Song, "score", r.Score, "reward", reward)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var difficulty string
	var playedAt int64
	var inputs []byte
	t := &e.Tally
	err := row.Scan(&e.ID, &e.Song, &difficulty, &e.Seed, &e.Score, &e.Accuracy, &e.Stars, &e.MaxCombo, &e.Notes,
		&t.Perfect, &t.Great, &t.Good, &t.Miss, &e.Failed, &e.Reward, &playedAt, &inputs, &e.Policy)
	if nil != err {
		return e, err
	}
	e.Difficulty = game.Difficulty(difficulty)
	e.PlayedAt = time.UnixMilli(playedAt)

	var ins []InputsCompact
	if err := json.Unmarshal(inputs, &ins); nil != err {
		return e, fmt.Errorf("unable to unmarshal inputs of %v: %w", e.ID, err)
	}
	e.Inputs = uncompactInputs(ins)
	return e, nil
}

// Load returns every play of a song at a difficulty, oldest first
func (s *DefaultStore) Load(song string, difficulty game.Difficulty) ([]Entry, error) {
	rows, err := s.db.Query("select "+columns+" from plays where song = ? and difficulty = ? order by played_at", song, string(difficulty))
	if nil != err {
		return nil, fmt.Errorf("unable to load plays: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if nil != err {
			s.log().Warn("skipping unreadable play", "err", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Best returns the highest scoring play that did not fail
func (s *DefaultStore) Best(song string, difficulty game.Difficulty) (Entry, bool, error) {
	row := s.db.QueryRow("select "+columns+" from plays where song = ? and difficulty = ? and failed = 0 order by score desc, played_at limit 1", song, string(difficulty))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if nil != err {
		return Entry{}, false, fmt.Errorf("unable to load best play: %w", err)
	}
	return e, true, nil
}

func (s *DefaultStore) Totals() (Totals, error) {
	var t Totals
	err := s.db.QueryRow("select count(*), coalesce(sum(reward), 0) from plays").Scan(&t.Plays, &t.Currency)
	if nil != err {
		return t, fmt.Errorf("unable to total plays: %w", err)
	}
	// sqlite takes the bare column from the row holding the max
	err = s.db.QueryRow(`select coalesce(sum(stars), 0) from
		(select stars, max(score) from plays where failed = 0 group by song, difficulty)`).Scan(&t.Stars)
	if nil != err {
		return t, fmt.Errorf("unable to total stars: %w", err)
	}
	return t, nil
}
