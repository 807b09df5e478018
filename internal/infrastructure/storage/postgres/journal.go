package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"ortoflow/internal/core/id"
	"ortoflow/internal/domain/intake"
)

const parseJournalTable = "sys_parse_journal"

// DefaultCompressThreshold is the result size above which payloads are stored
// zstd-compressed.
const DefaultCompressThreshold = 8 * 1024

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// parseJournalRow is the stored form of intake.Record.
type parseJournalRow struct {
	ID               id.ID           `db:"id"`
	Channel          string          `db:"channel"`
	RequestID        string          `db:"request_id"`
	RawText          string          `db:"raw_text"`
	Result           json.RawMessage `db:"result"`
	ResultCompressed []byte          `db:"result_compressed"`
	CompressionAlgo  CompressionAlgo `db:"compression_algo"`
	ItemCount        int             `db:"item_count"`
	MatchedCount     int             `db:"matched_count"`
	Degraded         bool            `db:"degraded"`
	CreatedAt        time.Time       `db:"created_at"`
}

// ParseJournal implements intake.Journal.
type ParseJournal struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ intake.Journal = (*ParseJournal)(nil)

// NewParseJournal creates a journal. threshold <= 0 uses DefaultCompressThreshold.
func NewParseJournal(txManager *TxManager, threshold int) (*ParseJournal, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &ParseJournal{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: threshold,
	}, nil
}

// Record stores one parse.
func (j *ParseJournal) Record(ctx context.Context, rec intake.Record) error {
	row, err := j.toRow(rec)
	if err != nil {
		return err
	}
	sql, args, err := insertQuery(row).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := j.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", parseJournalTable, err)
	}
	return nil
}

// Recent returns the latest parses, newest first.
func (j *ParseJournal) Recent(ctx context.Context, limit int) ([]intake.Record, error) {
	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(ExtractDBColumns[parseJournalRow]()...).
		From(parseJournalTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []parseJournalRow
	if err := pgxscan.Select(ctx, j.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}

	out := make([]intake.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := j.fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (j *ParseJournal) toRow(rec intake.Record) (parseJournalRow, error) {
	if id.IsNil(rec.ID) {
		rec.ID = id.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return parseJournalRow{}, fmt.Errorf("marshal result: %w", err)
	}

	row := parseJournalRow{
		ID:              rec.ID,
		Channel:         rec.Channel,
		RequestID:       rec.RequestID,
		RawText:         rec.RawText,
		Result:          payload,
		CompressionAlgo: CompressionNone,
		ItemCount:       len(rec.Result.Items),
		MatchedCount:    rec.Result.MatchedCount(),
		Degraded:        rec.Result.Degraded,
		CreatedAt:       rec.CreatedAt,
	}
	if len(payload) > j.compressThreshold {
		row.ResultCompressed = j.encoder.EncodeAll(payload, nil)
		row.Result = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row, nil
}

func (j *ParseJournal) fromRow(row parseJournalRow) (intake.Record, error) {
	payload := []byte(row.Result)
	if row.CompressionAlgo == CompressionZstd && len(row.ResultCompressed) > 0 {
		decompressed, err := j.decoder.DecodeAll(row.ResultCompressed, nil)
		if err != nil {
			return intake.Record{}, fmt.Errorf("decompress result %s: %w", row.ID, err)
		}
		payload = decompressed
	}

	rec := intake.Record{
		ID:        row.ID,
		Channel:   row.Channel,
		RequestID: row.RequestID,
		RawText:   row.RawText,
		CreatedAt: row.CreatedAt,
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &rec.Result); err != nil {
			return intake.Record{}, fmt.Errorf("unmarshal result %s: %w", row.ID, err)
		}
	}
	return rec, nil
}

func insertQuery(row parseJournalRow) squirrel.InsertBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(parseJournalTable).
		SetMap(StructToMap(row))
}
