package relays

import (
	"database/sql"
	"sort"
	"time"
)

// Store persists the relay directory snapshot in SQLite. The snapshot only
// exists to avoid a network fetch; it is replaced wholesale on refresh and
// an empty snapshot simply means "fetch again".
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an opened database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save replaces the cached snapshot with list, stamped at fetchedAt.
func (s *Store) Save(list []Relay, fetchedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM relay_snapshot`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO relay_snapshot (code, hostname, public_key, ipv4_addr, port, country, city)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, relay := range list {
		if _, err := stmt.Exec(
			relay.Code, relay.Hostname, relay.PublicKey,
			relay.IPv4Addr, relay.Port, relay.Country, relay.City,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO relay_snapshot_meta (id, fetched_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET fetched_at = excluded.fetched_at`,
		fetchedAt.UTC().Unix(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Load returns the cached snapshot and its fetch time. An empty cache
// returns an empty list and a zero time, not an error.
func (s *Store) Load() ([]Relay, time.Time, error) {
	rows, err := s.db.Query(`
		SELECT code, hostname, public_key, ipv4_addr, port, country, city
		FROM relay_snapshot`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var list []Relay
	for rows.Next() {
		var relay Relay
		if err := rows.Scan(
			&relay.Code, &relay.Hostname, &relay.PublicKey,
			&relay.IPv4Addr, &relay.Port, &relay.Country, &relay.City,
		); err != nil {
			return nil, time.Time{}, err
		}
		list = append(list, relay)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })

	var fetchedAt time.Time
	var stamp int64
	err = s.db.QueryRow(`SELECT fetched_at FROM relay_snapshot_meta WHERE id = 1`).Scan(&stamp)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, time.Time{}, err
	default:
		fetchedAt = time.Unix(stamp, 0).UTC()
	}
	return list, fetchedAt, nil
}
