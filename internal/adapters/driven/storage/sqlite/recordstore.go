package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/stance-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

const recordsTable = "records"

// recordColumns lists the ingested columns in insert and select order.
const recordColumns = `tweet_id, author_id, created_at, lang,
	retweet_count, reply_count, like_count, quote_count,
	text, media, en_text, stanza_output, stanza_named_entities,
	sentiment, stance, channel, country, verified, follower_count, image_tags`

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// CreateSchema applies any pending migrations, creating the records table.
func (s *recordStore) CreateSchema(ctx context.Context) error {
	return s.store.migrate(ctx, migrations.FS)
}

// AddColumns adds the given columns to the records table, skipping any that
// already exist.
func (s *recordStore) AddColumns(ctx context.Context, cols []domain.Column) ([]string, error) {
	existing, err := tableColumns(ctx, s.store.db, recordsTable)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("adding columns: table %s does not exist", recordsTable)
	}

	var added []string
	for _, c := range cols {
		if existing[c.Name] {
			continue
		}
		if !isIdentifier(c.Name) {
			return added, fmt.Errorf("adding column %q: %w", c.Name, domain.ErrInvalidInput)
		}

		// DDL cannot take bound parameters; names are validated above and
		// definitions come from domain.LabelColumns.
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", recordsTable, c.Name, c.Definition)
		if _, err := s.store.db.ExecContext(ctx, stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return added, fmt.Errorf("adding column %s: %w", c.Name, err)
		}
		added = append(added, c.Name)
	}
	return added, nil
}

// recordWriter inserts records within one transaction.
type recordWriter struct {
	stmt *sql.Stmt
}

// InsertRecord appends a record and sets its ID.
func (w *recordWriter) InsertRecord(ctx context.Context, rec *domain.Record) error {
	if rec == nil {
		return fmt.Errorf("inserting record: %w", domain.ErrInvalidInput)
	}

	stanceText, err := stanceColumn(rec.Stance)
	if err != nil {
		return err
	}

	result, err := w.stmt.ExecContext(ctx,
		nullString(rec.TweetID), nullString(rec.AuthorID), nullString(rec.CreatedAt), nullString(rec.Lang),
		nullInt64(rec.RetweetCount), nullInt64(rec.ReplyCount), nullInt64(rec.LikeCount), nullInt64(rec.QuoteCount),
		nullString(rec.Text), rawColumn(rec.Media), nullString(rec.EnText),
		rawColumn(rec.StanzaOutput), rawColumn(rec.NamedEntities), rawColumn(rec.Sentiment),
		stanceText, nullString(rec.Channel), nullString(rec.Country), nullString(rec.Verified),
		nullInt64(rec.FollowerCount), rawColumn(rec.ImageTags),
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// WithBatch runs fn inside a transaction and commits if it returns nil.
func (s *recordStore) WithBatch(ctx context.Context, fn func(w driven.RecordWriter) error) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	if err := fn(&recordWriter{stmt: stmt}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ForEachRecord visits records in insertion order.
func (s *recordStore) ForEachRecord(ctx context.Context, visit driven.RecordVisitor) error {
	rows, labelled, err := s.queryRecords(ctx, -1)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows, labelled)
		if err != nil {
			return err
		}
		if err := visit(*rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating records: %w", err)
	}
	return nil
}

// Head returns the first n records.
func (s *recordStore) Head(ctx context.Context, n int) ([]domain.Record, error) {
	rows, labelled, err := s.queryRecords(ctx, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows, labelled)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// queryRecords selects records, including label columns when present.
// A negative limit selects every record.
func (s *recordStore) queryRecords(ctx context.Context, limit int) (*sql.Rows, bool, error) {
	labelled, err := hasLabelColumns(ctx, s.store.db)
	if err != nil {
		return nil, false, err
	}

	cols := "id, " + recordColumns
	if labelled {
		cols += ", pro_russia, pro_ukraine, unsure"
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+cols+" FROM records ORDER BY id LIMIT ?", limit)
	if err != nil {
		return nil, false, fmt.Errorf("querying records: %w", err)
	}
	return rows, labelled, nil
}

// labelPageSize bounds how many stances ApplyLabels holds at once.
var labelPageSize = 1000

// labelRow is one record's id and stored stance, read before updating.
type labelRow struct {
	id     int64
	stance sql.NullString
}

// ApplyLabels recomputes every record's labels in a single transaction.
// Rows are read in id-ordered pages; each page is read in full before it is
// updated so no cursor is open during the updates.
func (s *recordStore) ApplyLabels(ctx context.Context, label driven.LabelFunc) (domain.LabelSummary, error) {
	var summary domain.LabelSummary

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	labelled, err := hasLabelColumns(ctx, tx)
	if err != nil {
		return summary, err
	}
	if !labelled {
		return summary, fmt.Errorf("applying labels: label columns missing from %s", recordsTable)
	}

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE records SET pro_russia = ?, pro_ukraine = ?, unsure = ? WHERE id = ?")
	if err != nil {
		return summary, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	var lastID int64
	page := make([]labelRow, 0, labelPageSize)
	for {
		page, err = stancePage(ctx, tx, lastID, page[:0])
		if err != nil {
			return domain.LabelSummary{}, err
		}
		for _, r := range page {
			labels := label(domain.ParseStanceSequence(r.stance.String))
			proRussia, proUkraine, unsure := labels.Ints()
			if _, err := stmt.ExecContext(ctx, proRussia, proUkraine, unsure, r.id); err != nil {
				return domain.LabelSummary{}, fmt.Errorf("updating record %d: %w", r.id, err)
			}
			summary.Add(labels)
		}
		if len(page) < labelPageSize {
			break
		}
		lastID = page[len(page)-1].id
	}

	if err := tx.Commit(); err != nil {
		return domain.LabelSummary{}, fmt.Errorf("committing transaction: %w", err)
	}
	return summary, nil
}

// stancePage appends up to labelPageSize rows with id > afterID to buf.
func stancePage(ctx context.Context, tx *sql.Tx, afterID int64, buf []labelRow) ([]labelRow, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, stance FROM records WHERE id > ? ORDER BY id LIMIT ?", afterID, labelPageSize)
	if err != nil {
		return nil, fmt.Errorf("querying stances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r labelRow
		if err := rows.Scan(&r.id, &r.stance); err != nil {
			return nil, fmt.Errorf("scanning stance: %w", err)
		}
		buf = append(buf, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stances: %w", err)
	}
	return buf, nil
}

// Count returns the number of stored records.
func (s *recordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// hasLabelColumns reports whether all derived-label columns exist.
func hasLabelColumns(ctx context.Context, q queryer) (bool, error) {
	cols, err := tableColumns(ctx, q, recordsTable)
	if err != nil {
		return false, err
	}
	for _, c := range domain.LabelColumns() {
		if !cols[c.Name] {
			return false, nil
		}
	}
	return true, nil
}

// scanRecord reads one row selected by queryRecords.
func scanRecord(rows *sql.Rows, labelled bool) (*domain.Record, error) {
	var rec domain.Record
	var tweetID, authorID, createdAt, lang, text, enText sql.NullString
	var channel, country, verified sql.NullString
	var media, stanza, entities, sentiment, stance, imageTags sql.NullString
	var retweets, replies, likes, quotes, followers sql.NullInt64
	var proRussia, proUkraine, unsure sql.NullInt64

	dest := []any{
		&rec.ID, &tweetID, &authorID, &createdAt, &lang,
		&retweets, &replies, &likes, &quotes,
		&text, &media, &enText, &stanza, &entities,
		&sentiment, &stance, &channel, &country, &verified, &followers, &imageTags,
	}
	if labelled {
		dest = append(dest, &proRussia, &proUkraine, &unsure)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rec.TweetID = tweetID.String
	rec.AuthorID = authorID.String
	rec.CreatedAt = createdAt.String
	rec.Lang = lang.String
	rec.RetweetCount = int64Ptr(retweets)
	rec.ReplyCount = int64Ptr(replies)
	rec.LikeCount = int64Ptr(likes)
	rec.QuoteCount = int64Ptr(quotes)
	rec.Text = text.String
	rec.EnText = enText.String
	rec.Media = rawMessage(media)
	rec.StanzaOutput = rawMessage(stanza)
	rec.NamedEntities = rawMessage(entities)
	rec.Sentiment = rawMessage(sentiment)
	rec.ImageTags = rawMessage(imageTags)
	if stance.Valid {
		rec.Stance = domain.ParseStanceSequence(stance.String)
	}
	rec.Channel = channel.String
	rec.Country = country.String
	rec.Verified = verified.String
	rec.FollowerCount = int64Ptr(followers)

	if labelled {
		labels := domain.LabelsFromInts(int(proRussia.Int64), int(proUkraine.Int64), int(unsure.Int64))
		rec.Labels = &labels
	}

	return &rec, nil
}

// stanceColumn normalises a stance sequence for storage. Absent stances are
// stored as NULL; present ones as a JSON array of objects so json_each and
// json_extract always see well-formed entries.
func stanceColumn(seq domain.StanceSequence) (any, error) {
	if seq == nil {
		return nil, nil
	}
	data, err := json.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("marshalling stance: %w", err)
	}
	return string(data), nil
}

// rawColumn stores a verbatim JSON annotation, or NULL when absent.
func rawColumn(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == jsonNull {
		return nil
	}
	return string(raw)
}

func rawMessage(ns sql.NullString) json.RawMessage {
	if !ns.Valid || ns.String == "" || ns.String == jsonNull {
		return nil
	}
	return json.RawMessage(ns.String)
}

// nullString returns nil for empty strings so absent fields stay NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// isIdentifier reports whether name is a plain SQL identifier.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
