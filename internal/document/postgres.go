package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"amani/pkg/platform/sentinel"
)

// Postgres persists documents in a single JSONB table, one row per
// document, keyed by (collection, id). Partial updates use jsonb
// concatenation so untouched keys keep their stored values and nulls in the
// patch overwrite (clear) the stored value.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the documents table and its lookup index.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			doc        JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS documents_doc_idx
		ON documents USING GIN (doc jsonb_path_ops)`)
	if err != nil {
		return fmt.Errorf("create documents index: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, collection, id string) (Stored, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Stored{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Stored{}, translatePgErr("get document", err)
	}
	doc, err := UnmarshalDocument(raw)
	if err != nil {
		return Stored{}, err
	}
	return Stored{ID: id, Doc: doc}, nil
}

func (s *Postgres) Insert(ctx context.Context, collection, id string, doc Document) error {
	raw, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`,
		collection, id, raw,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return translatePgErr("insert document", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, collection, id string, patch Document) error {
	raw, err := MarshalDocument(patch)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET doc = doc || $3::jsonb WHERE collection = $1 AND id = $2`,
		collection, id, raw,
	)
	if err != nil {
		return translatePgErr("update document", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return translatePgErr("delete document", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Query(ctx context.Context, collection string, q Query) ([]Stored, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT id, doc FROM documents WHERE collection = $1`)
	args := []any{collection}

	for _, f := range q.Filters {
		if err := validFieldName(f.Field); err != nil {
			return nil, err
		}
		valueJSON, err := MarshalDocument(Document{f.Field: f.Value})
		if err != nil {
			return nil, err
		}
		switch f.Op {
		case OpEqual:
			args = append(args, valueJSON)
			fmt.Fprintf(&sb, ` AND doc @> $%d::jsonb`, len(args))
		case OpArrayContains:
			// {"field": v} reuses the marshaling above; extract the
			// element and test array containment on the field itself.
			args = append(args, valueJSON)
			fmt.Fprintf(&sb, ` AND doc->'%s' @> ($%d::jsonb)->'%s'`, f.Field, len(args), f.Field)
		default:
			return nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}

	if q.OrderBy.Field != "" {
		if err := validFieldName(q.OrderBy.Field); err != nil {
			return nil, err
		}
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		// Timestamps are stored as tagged objects; order by their numeric
		// parts first and fall back to text comparison for plain scalars.
		fmt.Fprintf(&sb,
			` ORDER BY (doc#>>'{%[1]s,_seconds}')::numeric %[2]s NULLS LAST,`+
				` (doc#>>'{%[1]s,_nanoseconds}')::numeric %[2]s NULLS LAST,`+
				` doc->>'%[1]s' %[2]s NULLS LAST`,
			q.OrderBy.Field, dir)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, translatePgErr("query documents", err)
	}
	defer rows.Close()

	var out []Stored
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		doc, err := UnmarshalDocument(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Stored{ID: id, Doc: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgErr("query documents", err)
	}
	return out, nil
}

var fieldNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Field names come from the fixed entity schemas, never from user input,
// but the check keeps a typo from turning into SQL injection.
func validFieldName(name string) error {
	if !fieldNameRe.MatchString(name) {
		return fmt.Errorf("invalid field name %q", name)
	}
	return nil
}

func translatePgErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return fmt.Errorf("%s: %w: %v", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
