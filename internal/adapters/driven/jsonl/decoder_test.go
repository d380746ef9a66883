package jsonl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
	"github.com/custodia-labs/stance-cli/internal/logger"
)

type decoded struct {
	line int
	rec  *domain.Record
	err  error
}

func decodeAll(t *testing.T, input string) []decoded {
	t.Helper()
	var out []decoded
	err := New().Decode(context.Background(), strings.NewReader(input),
		func(line int, rec *domain.Record, err error) error {
			out = append(out, decoded{line: line, rec: rec, err: err})
			return nil
		})
	require.NoError(t, err)
	return out
}

func TestDecode_FullRecord(t *testing.T) {
	line := `{"tweet_id":"1498000000000000001","author_id":"77","created_at":"2022-02-27T12:00:00.000Z",` +
		`"lang":"de","retweet_count":4,"reply_count":"2","like_count":10.0,"quote_count":null,` +
		`"text":"Hallo","media":[{"type":"photo"}],"en_text":"Hello","stanza_output":null,` +
		`"sentiment":{"label":"positive"},"stance":[{"hypothesis":"This statement is in favour of Ukraine",` +
		`"entail_prob":"0.97","contra_prob":"0.01"}],"channel":"DW","country":"Germany",` +
		`"verified":true,"follower_count":"1500","image_tags":["flag"],"extra":"ignored"}`

	got := decodeAll(t, line+"\n")
	require.Len(t, got, 1)
	require.NoError(t, got[0].err)
	assert.Equal(t, 1, got[0].line)

	rec := got[0].rec
	assert.Equal(t, "1498000000000000001", rec.TweetID)
	assert.Equal(t, "77", rec.AuthorID)
	assert.Equal(t, "de", rec.Lang)
	require.NotNil(t, rec.RetweetCount)
	assert.Equal(t, int64(4), *rec.RetweetCount)
	require.NotNil(t, rec.ReplyCount)
	assert.Equal(t, int64(2), *rec.ReplyCount)
	require.NotNil(t, rec.LikeCount)
	assert.Equal(t, int64(10), *rec.LikeCount)
	assert.Nil(t, rec.QuoteCount)
	assert.JSONEq(t, `[{"type":"photo"}]`, string(rec.Media))
	assert.Nil(t, rec.StanzaOutput)
	assert.Nil(t, rec.NamedEntities)
	assert.JSONEq(t, `["flag"]`, string(rec.ImageTags))
	assert.Equal(t, "DW", rec.Channel)
	assert.Equal(t, "Germany", rec.Country)
	assert.Equal(t, "true", rec.Verified)
	require.NotNil(t, rec.FollowerCount)
	assert.Equal(t, int64(1500), *rec.FollowerCount)

	p, ok := rec.Stance.Entailment(domain.HypothesisFavourUkraine)
	require.True(t, ok)
	assert.True(t, p.Valid)
	assert.InDelta(t, 0.97, p.Value, 1e-9)
}

func TestDecode_NumericIdentifiersKeepPrecision(t *testing.T) {
	got := decodeAll(t, `{"tweet_id":1498000000000000001,"author_id":42}`)
	require.Len(t, got, 1)
	require.NoError(t, got[0].err)
	assert.Equal(t, "1498000000000000001", got[0].rec.TweetID)
	assert.Equal(t, "42", got[0].rec.AuthorID)
}

func TestDecode_AbsentStanceIsNil(t *testing.T) {
	got := decodeAll(t, `{"tweet_id":"1"}`+"\n"+`{"tweet_id":"2","stance":null}`+"\n"+`{"tweet_id":"3","stance":[]}`)
	require.Len(t, got, 3)
	assert.Nil(t, got[0].rec.Stance)
	assert.Nil(t, got[1].rec.Stance)
	assert.NotNil(t, got[2].rec.Stance)
	assert.Empty(t, got[2].rec.Stance)
}

func TestDecode_MalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"tweet_id":"1"}`,
		`{"tweet_id": `,
		``,
		`[1,2,3]`,
		`"just a string"`,
		`{"tweet_id":"6","like_count":1.5}`,
		`{"tweet_id":"7","channel":{"name":"x"}}`,
		`{"tweet_id":"8"}`,
	}, "\n")

	got := decodeAll(t, input)
	require.Len(t, got, 7, "blank lines are not reported")

	wantLines := []int{1, 2, 4, 5, 6, 7, 8}
	wantErr := []bool{false, true, true, true, false, false, false}
	for i, d := range got {
		assert.Equal(t, wantLines[i], d.line)
		if wantErr[i] {
			assert.Error(t, d.err, "line %d", d.line)
			assert.Nil(t, d.rec)
		} else {
			assert.NoError(t, d.err, "line %d", d.line)
			assert.NotNil(t, d.rec)
		}
	}
	assert.ErrorIs(t, got[2].err, errNotObject)
	assert.ErrorIs(t, got[3].err, errNotObject)

	// Unusable scalars are dropped, the record is kept
	assert.Nil(t, got[4].rec.LikeCount)
	assert.Equal(t, "", got[5].rec.Channel)
}

func TestDecodeRecord_UnusableScalarsAreAbsent(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, rec *domain.Record)
	}{
		{
			name: "non-numeric counter",
			line: `{"tweet_id":"1","retweet_count":"n/a","like_count":4,"stance":[]}`,
			check: func(t *testing.T, rec *domain.Record) {
				assert.Nil(t, rec.RetweetCount)
				assert.Equal(t, ptr(4), rec.LikeCount)
				assert.NotNil(t, rec.Stance)
			},
		},
		{
			name: "negative counter",
			line: `{"tweet_id":"2","retweet_count":-5,"follower_count":"-1"}`,
			check: func(t *testing.T, rec *domain.Record) {
				assert.Nil(t, rec.RetweetCount)
				assert.Nil(t, rec.FollowerCount)
			},
		},
		{
			name: "object-valued string",
			line: `{"tweet_id":"3","verified":{"a":1},"country":"France"}`,
			check: func(t *testing.T, rec *domain.Record) {
				assert.Equal(t, "", rec.Verified)
				assert.Equal(t, "France", rec.Country)
			},
		},
		{
			name: "boolean counter",
			line: `{"tweet_id":"4","quote_count":true}`,
			check: func(t *testing.T, rec *domain.Record) {
				assert.Nil(t, rec.QuoteCount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeRecord([]byte(tt.line))
			require.NoError(t, err)
			require.NotNil(t, rec)
			tt.check(t, rec)
		})
	}
}

func TestDecode_LogsDroppedFields(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})

	got := decodeAll(t, "{\"tweet_id\":\"1\"}\n{\"tweet_id\":\"2\",\"reply_count\":\"n/a\"}\n")

	require.Len(t, got, 2)
	require.NoError(t, got[1].err)
	assert.Contains(t, buf.String(), `line 2: ignored reply_count: expected integer, got "n/a"`)
}

func TestDecode_CRLFAndBOM(t *testing.T) {
	got := decodeAll(t, "\xEF\xBB\xBF{\"tweet_id\":\"1\"}\r\n{\"tweet_id\":\"2\"}\r\n")
	require.Len(t, got, 2)
	require.NoError(t, got[0].err)
	require.NoError(t, got[1].err)
	assert.Equal(t, "1", got[0].rec.TweetID)
	assert.Equal(t, 2, got[1].line)
}

func TestDecode_NoTrailingNewline(t *testing.T) {
	got := decodeAll(t, `{"tweet_id":"1"}`+"\n"+`{"tweet_id":"2"}`)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[1].rec.TweetID)
}

func TestDecode_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := New().Decode(context.Background(), strings.NewReader("{}\n{}\n{}"),
		func(int, *domain.Record, error) error {
			calls++
			return stop
		})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestDecode_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Decode(ctx, strings.NewReader("{}\n"), func(int, *domain.Record, error) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeLine(t *testing.T) {
	input := "{\"tweet_id\":\"1\"}\n\n{\"tweet_id\":\"3\"}\nnot json\n"
	d := New()
	ctx := context.Background()

	rec, err := d.DecodeLine(ctx, strings.NewReader(input), 3)
	require.NoError(t, err)
	assert.Equal(t, "3", rec.TweetID)

	_, err = d.DecodeLine(ctx, strings.NewReader(input), 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = d.DecodeLine(ctx, strings.NewReader(input), 4)
	var lineErr domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 4, lineErr.Line)

	_, err = d.DecodeLine(ctx, strings.NewReader(input), 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = d.DecodeLine(ctx, strings.NewReader(input), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		input   string
		want    *int64
		dropped bool
	}{
		{`5`, ptr(5), false},
		{`5.0`, ptr(5), false},
		{`"12"`, ptr(12), false},
		{`" 7 "`, ptr(7), false},
		{`"3.0"`, ptr(3), false},
		{`null`, nil, false},
		{`""`, nil, false},
		{`-2`, nil, true},
		{`1.5`, nil, true},
		{`"abc"`, nil, true},
		{`true`, nil, true},
		{`[1]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var n flexInt
			require.NoError(t, n.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.want, n.ptr())
			assert.Equal(t, tt.dropped, n.dropped != "")
		})
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		dropped bool
	}{
		{`"abc"`, "abc", false},
		{`123`, "123", false},
		{`false`, "false", false},
		{`null`, "", false},
		{`{"a":1}`, "", true},
		{`[1]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s flexString
			require.NoError(t, s.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.want, s.value)
			assert.Equal(t, tt.dropped, s.dropped != "")
		})
	}
}

func ptr(n int64) *int64 {
	return &n
}
