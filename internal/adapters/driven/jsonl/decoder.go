package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

// Ensure Decoder implements the interface.
var _ driven.RecordDecoder = (*Decoder)(nil)

// utf8BOM is stripped from the first line if present.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// errNotObject reports a well-formed JSON value that is not an object.
var errNotObject = errors.New("not a JSON object")

// Decoder reads records from line-delimited JSON.
type Decoder struct{}

// New creates a new JSONL decoder.
func New() *Decoder {
	return &Decoder{}
}

// Decode calls fn for every non-blank line of r.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, fn driven.LineFunc) error {
	return eachLine(ctx, r, func(n int, line []byte) (bool, error) {
		if len(line) == 0 {
			return true, nil
		}
		rec, err := decodeLine(n, line)
		if err != nil {
			return true, fn(n, nil, err)
		}
		return true, fn(n, rec, nil)
	})
}

// DecodeLine decodes the n-th physical line of r.
func (d *Decoder) DecodeLine(ctx context.Context, r io.Reader, n int) (*domain.Record, error) {
	if n < 1 {
		return nil, fmt.Errorf("line %d: %w", n, domain.ErrInvalidInput)
	}

	var (
		rec   *domain.Record
		found bool
		err   error
	)
	walkErr := eachLine(ctx, r, func(i int, line []byte) (bool, error) {
		if i < n {
			return true, nil
		}
		found = true
		if len(line) == 0 {
			err = fmt.Errorf("line %d is blank: %w", n, domain.ErrInvalidInput)
			return false, nil
		}
		rec, err = decodeLine(n, line)
		if err != nil {
			err = domain.LineError{Line: n, Err: err.Error()}
		}
		return false, nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if !found {
		return nil, fmt.Errorf("line %d: %w", n, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// eachLine calls fn with every physical line of r, numbered from 1, with
// surrounding whitespace removed. fn returns false to stop early.
func eachLine(ctx context.Context, r io.Reader, fn func(n int, line []byte) (bool, error)) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, readErr := br.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("reading line %d: %w", n, readErr)
		}
		if readErr == io.EOF && len(raw) == 0 {
			return nil
		}

		if n == 1 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}
		more, err := fn(n, bytes.TrimSpace(raw))
		if err != nil {
			return err
		}
		if !more || readErr == io.EOF {
			return nil
		}
	}
}

// decodeLine decodes line n and logs fields that were dropped as unusable.
func decodeLine(n int, line []byte) (*domain.Record, error) {
	rec, dropped, err := decodeRecord(line)
	for _, d := range dropped {
		logger.Debug("line %d: ignored %s", n, d)
	}
	return rec, err
}

// DecodeRecord decodes a single JSON object into a record. Unusable scalar
// values decode as absent rather than rejecting the record.
func DecodeRecord(line []byte) (*domain.Record, error) {
	rec, _, err := decodeRecord(line)
	return rec, err
}

func decodeRecord(line []byte) (*domain.Record, []string, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		if !json.Valid(line) {
			return nil, nil, errors.New("invalid JSON")
		}
		return nil, nil, errNotObject
	}

	var w wireRecord
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, nil, err
	}
	return w.record(), w.dropped(), nil
}
