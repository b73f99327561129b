// Package archive keeps an opt-in local transcript of chat sessions in a
// sqlite database. It is plain local tooling: the session controller only
// sees it through the Recorder interface and works the same without it.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/takaryo1010/OneTimeChat/client/domain"
	"github.com/takaryo1010/OneTimeChat/client/usecase"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	room_id    TEXT NOT NULL,
	sender     TEXT NOT NULL,
	content    TEXT NOT NULL,
	mine       INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id, id);
`

type Store struct {
	db *sql.DB
}

var _ usecase.Recorder = (*Store)(nil)

// Open creates or opens the transcript database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one message to the transcript. Row IDs are ULIDs, so
// lexicographic order is insertion order.
func (s *Store) Record(roomID string, msg domain.Message) error {
	_, err := s.db.Exec(
		`INSERT INTO messages (id, room_id, sender, content, mine, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ulid.Make().String(), roomID, msg.Sender, msg.Content, msg.IsMine, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording message: %w", err)
	}
	return nil
}

// Entry is one archived message with its capture time.
type Entry struct {
	Message   domain.Message
	CreatedAt time.Time
}

// List returns up to limit archived messages for roomID in insertion
// order, oldest first. limit <= 0 means no limit.
func (s *Store) List(roomID string, limit int) ([]Entry, error) {
	query := `SELECT sender, content, mine, created_at FROM messages WHERE room_id = ? ORDER BY id`
	args := []any{roomID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Message.Sender, &e.Message.Content, &e.Message.IsMine, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return entries, nil
}

// Rooms lists the room IDs present in the archive.
func (s *Store) Rooms() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT room_id FROM messages ORDER BY room_id`)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, id)
	}
	return rooms, rows.Err()
}
