package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Attempt is one recorded answer round trip.
type Attempt struct {
	ID            string    `json:"id"`
	URL           string    `json:"url,omitempty"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	Answer        string    `json:"answer"`
	MatchedOption string    `json:"matched_option,omitempty"`
	MatchTier     string    `json:"match_tier,omitempty"`
	Kind          string    `json:"kind,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Store interface {
	// Save records an attempt, assigning ID and CreatedAt, and prunes the
	// oldest rows past the configured cap.
	Save(ctx context.Context, a Attempt) (Attempt, error)
	// Recent returns attempts newest first, at most limit.
	Recent(ctx context.Context, limit int) ([]Attempt, error)
}

// DefaultMaxItems caps stored attempts when no explicit limit is set.
const DefaultMaxItems = 50

type SQLStore struct {
	db  *sql.DB
	max int
}

// NewSQLStore wraps an opened history DB. maxItems <= 0 selects
// DefaultMaxItems.
func NewSQLStore(db *sql.DB, maxItems int) *SQLStore {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &SQLStore{db: db, max: maxItems}
}

func (s *SQLStore) Save(ctx context.Context, a Attempt) (Attempt, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	oj, err := json.Marshal(a.Options)
	if err != nil {
		return Attempt{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts
		(id,url,question,options_json,answer,matched_option,match_tier,kind,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.URL, a.Question, string(oj), a.Answer, a.MatchedOption, a.MatchTier, a.Kind, a.CreatedAt.UnixNano())
	if err != nil {
		return Attempt{}, err
	}
	if err := s.prune(ctx); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) prune(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attempts WHERE id NOT IN (
		SELECT id FROM attempts ORDER BY created_at DESC, id DESC LIMIT $1)`, s.max)
	return err
}

func (s *SQLStore) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 || limit > s.max {
		limit = s.max
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,url,question,options_json,answer,matched_option,match_tier,kind,created_at
		FROM attempts ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a     Attempt
			oj    string
			nanos int64
		)
		if err := rows.Scan(&a.ID, &a.URL, &a.Question, &oj, &a.Answer, &a.MatchedOption, &a.MatchTier, &a.Kind, &nanos); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(oj), &a.Options); err != nil {
			return nil, err
		}
		a.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
