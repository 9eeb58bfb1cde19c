package db

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

const callColumns = `id, public_id, pin, source, destination, language, recording_key,
	transcription, status, risk_level, risk_factors, keywords, sentiment, summary,
	created_at, updated_at`

func scanCall(row interface{ Scan(dest ...any) error }) (Call, error) {
	var c Call
	err := row.Scan(
		&c.ID,
		&c.PublicID,
		&c.Pin,
		&c.Source,
		&c.Destination,
		&c.Language,
		&c.RecordingKey,
		&c.Transcription,
		&c.Status,
		&c.RiskLevel,
		&c.RiskFactors,
		&c.Keywords,
		&c.Sentiment,
		&c.Summary,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

type CreateCallParams struct {
	PublicID      string
	Pin           string
	Source        string
	Destination   string
	Language      *string
	RecordingKey  *string
	Transcription *string
	Status        string
}

func (q *Queries) CreateCall(ctx context.Context, arg CreateCallParams) (Call, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO calls (public_id, pin, source, destination, language, recording_key, transcription, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+callColumns,
		arg.PublicID,
		arg.Pin,
		arg.Source,
		arg.Destination,
		arg.Language,
		arg.RecordingKey,
		arg.Transcription,
		arg.Status,
	)
	return scanCall(row)
}

func (q *Queries) GetCallByPublicID(ctx context.Context, publicID string) (Call, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+callColumns+` FROM calls WHERE public_id = $1`,
		publicID,
	)
	return scanCall(row)
}

type ListCallsParams struct {
	Pin    string
	Limit  int32
	Offset int32
}

func (q *Queries) ListCalls(ctx context.Context, arg ListCallsParams) ([]Call, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+callColumns+` FROM calls
		WHERE ($1 = '' OR pin = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		arg.Pin,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

type UpdateCallTranscriptionParams struct {
	PublicID      string
	Transcription string
	Status        string
}

func (q *Queries) UpdateCallTranscription(ctx context.Context, arg UpdateCallTranscriptionParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE calls
		SET transcription = $2, status = $3, updated_at = now()
		WHERE public_id = $1`,
		arg.PublicID,
		arg.Transcription,
		arg.Status,
	)
	return err
}

type UpdateCallAnalysisParams struct {
	PublicID    string
	RiskLevel   int32
	RiskFactors []string
	Keywords    []string
	Sentiment   *string
	Summary     string
	Status      string
}

func (q *Queries) UpdateCallAnalysis(ctx context.Context, arg UpdateCallAnalysisParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE calls
		SET risk_level = $2, risk_factors = $3, keywords = $4, sentiment = $5,
			summary = $6, status = $7, updated_at = now()
		WHERE public_id = $1`,
		arg.PublicID,
		arg.RiskLevel,
		arg.RiskFactors,
		arg.Keywords,
		arg.Sentiment,
		arg.Summary,
		arg.Status,
	)
	return err
}

type SetCallStatusParams struct {
	PublicID string
	Status   string
}

func (q *Queries) SetCallStatus(ctx context.Context, arg SetCallStatusParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE calls SET status = $2, updated_at = now() WHERE public_id = $1`,
		arg.PublicID,
		arg.Status,
	)
	return err
}

type SetCallEmbeddingParams struct {
	PublicID  string
	Embedding pgvector.Vector
}

func (q *Queries) SetCallEmbedding(ctx context.Context, arg SetCallEmbeddingParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE calls SET embedding = $2, updated_at = now() WHERE public_id = $1`,
		arg.PublicID,
		arg.Embedding,
	)
	return err
}

type FindSimilarCallsParams struct {
	PublicID string
	Limit    int32
}

type SimilarCall struct {
	Call
	Distance float64 `json:"distance"`
}

// FindSimilarCalls ranks other embedded calls by cosine distance to the
// given call's transcript embedding. A call that has no embedding yet
// matches nothing, so distance never scans as NULL.
func (q *Queries) FindSimilarCalls(ctx context.Context, arg FindSimilarCallsParams) ([]SimilarCall, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+callColumns+`,
			embedding <=> (SELECT embedding FROM calls WHERE public_id = $1) AS distance
		FROM calls
		WHERE public_id != $1 AND embedding IS NOT NULL
			AND (SELECT embedding FROM calls WHERE public_id = $1) IS NOT NULL
		ORDER BY distance
		LIMIT $2`,
		arg.PublicID,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	similar := make([]SimilarCall, 0)
	for rows.Next() {
		var s SimilarCall
		err := rows.Scan(
			&s.ID,
			&s.PublicID,
			&s.Pin,
			&s.Source,
			&s.Destination,
			&s.Language,
			&s.RecordingKey,
			&s.Transcription,
			&s.Status,
			&s.RiskLevel,
			&s.RiskFactors,
			&s.Keywords,
			&s.Sentiment,
			&s.Summary,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.Distance,
		)
		if err != nil {
			return nil, err
		}
		similar = append(similar, s)
	}
	return similar, rows.Err()
}
