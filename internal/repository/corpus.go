// Package repository handles persistence of the default answer corpus.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CorpusRepository stores the pre-indexed default corpus: one row per
// document plus one embedded chunk row per paragraph.
type CorpusRepository struct {
	pool *pgxpool.Pool
}

func NewCorpusRepository(pool *pgxpool.Pool) *CorpusRepository {
	return &CorpusRepository{pool: pool}
}

// Replace atomically swaps the stored corpus for the given documents.
func (r *CorpusRepository) Replace(ctx context.Context, docs []*domain.Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM document_chunks`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM documents`); err != nil {
		return err
	}

	for _, doc := range docs {
		if err := insertDocument(ctx, tx, doc); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertDocument(ctx context.Context, db dbtx, doc *domain.Document) error {
	_, err := db.Exec(ctx,
		`INSERT INTO documents (id, url, title, body) VALUES ($1, $2, $3, $4)`,
		doc.ID, doc.URL, doc.Title, doc.Text,
	)
	if err != nil {
		return err
	}

	for i, chunk := range doc.Chunks {
		var embedding any
		if i < len(doc.Vectors) {
			embedding = pgvector.NewVector(doc.Vectors[i])
		}
		_, err := db.Exec(ctx,
			`INSERT INTO document_chunks (document_id, chunk_index, content, embedding)
			 VALUES ($1, $2, $3, $4)`,
			doc.ID, i, chunk, embedding,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Load reads the full corpus back, chunks in index order.
func (r *CorpusRepository) Load(ctx context.Context) ([]*domain.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, url, title, body FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	byID := make(map[string]*domain.Document)
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.URL, &doc.Title, &doc.Text); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
		byID[doc.ID] = &doc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chunkRows, err := r.pool.Query(ctx,
		`SELECT document_id, content, embedding
		 FROM document_chunks
		 ORDER BY document_id, chunk_index`)
	if err != nil {
		return nil, err
	}
	defer chunkRows.Close()

	for chunkRows.Next() {
		var docID, content string
		var embedding *pgvector.Vector
		if err := chunkRows.Scan(&docID, &content, &embedding); err != nil {
			return nil, err
		}
		doc, ok := byID[docID]
		if !ok {
			continue
		}
		doc.Chunks = append(doc.Chunks, content)
		if embedding != nil {
			doc.Vectors = append(doc.Vectors, embedding.Slice())
		}
	}
	if err := chunkRows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}
