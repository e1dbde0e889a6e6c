package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
)

const uniqueViolation = "23505"

// PostgresGateway stores documents as JSONB rows in a single table.
// Documents are encoded as relaxed MongoDB Extended JSON so that the
// bson tags used by the Mongo backend apply unchanged.
type PostgresGateway struct {
	db *sql.DB
}

func NewPostgresGateway(db *sql.DB) *PostgresGateway {
	return &PostgresGateway{db: db}
}

func (g *PostgresGateway) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	d, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	d, id := withID(d)
	data, err := bson.MarshalExtJSON(d, false, false)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	const query = `
		INSERT INTO documents (id, collection, doc, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())`
	if _, err := g.db.ExecContext(ctx, query, id, collection, string(data)); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", collection, ErrDuplicate)
		}
		return "", err
	}
	return id, nil
}

func (g *PostgresGateway) FindOne(ctx context.Context, collection string, filter Filter, out any) error {
	filterJSON, err := filterToJSON(filter)
	if err != nil {
		return err
	}

	const query = `
		SELECT doc
		FROM documents
		WHERE collection = $1 AND doc @> $2::jsonb
		ORDER BY created_at
		LIMIT 1`
	var data []byte
	if err := g.db.QueryRowContext(ctx, query, collection, filterJSON).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := bson.UnmarshalExtJSON(data, false, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func (g *PostgresGateway) UpsertOne(ctx context.Context, collection string, filter Filter, update any) error {
	set, err := toDocument(update)
	if err != nil {
		return err
	}
	delete(set, idField)
	setJSON, err := bson.MarshalExtJSON(set, false, false)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	filterJSON, err := filterToJSON(filter)
	if err != nil {
		return err
	}

	updated, err := g.update(ctx, collection, filterJSON, string(setJSON))
	if err != nil || updated {
		return err
	}

	doc, err := toDocument(map[string]any(filter))
	if err != nil {
		return err
	}
	for key, value := range set {
		doc[key] = value
	}
	if _, err := g.InsertOne(ctx, collection, doc); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			return err
		}
		// A concurrent upsert inserted the row first.
		_, err = g.update(ctx, collection, filterJSON, string(setJSON))
		return err
	}
	return nil
}

func (g *PostgresGateway) update(ctx context.Context, collection, filterJSON, setJSON string) (bool, error) {
	const query = `
		UPDATE documents
		SET doc = doc || $3::jsonb,
			updated_at = NOW()
		WHERE collection = $1 AND doc @> $2::jsonb`
	result, err := g.db.ExecContext(ctx, query, collection, filterJSON, setJSON)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (g *PostgresGateway) EnsureUnique(ctx context.Context, collection, field string) error {
	query := uniqueIndexStatement(collection, field)
	_, err := g.db.ExecContext(ctx, query)
	return err
}

func (g *PostgresGateway) Close(ctx context.Context) error {
	return g.db.Close()
}

func uniqueIndexStatement(collection, field string) string {
	name := pq.QuoteIdentifier(fmt.Sprintf("documents_%s_%s_key", collection, field))
	return fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON documents ((doc->>%s)) WHERE collection = %s",
		name,
		pq.QuoteLiteral(field),
		pq.QuoteLiteral(collection),
	)
}

func filterToJSON(filter Filter) (string, error) {
	doc, err := toDocument(map[string]any(filter))
	if err != nil {
		return "", err
	}
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", fmt.Errorf("encode filter: %w", err)
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
