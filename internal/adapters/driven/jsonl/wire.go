package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

// wireRecord mirrors one source line. Annotations stay raw.
type wireRecord struct {
	TweetID       flexString            `json:"tweet_id"`
	AuthorID      flexString            `json:"author_id"`
	CreatedAt     flexString            `json:"created_at"`
	Lang          flexString            `json:"lang"`
	RetweetCount  flexInt               `json:"retweet_count"`
	ReplyCount    flexInt               `json:"reply_count"`
	LikeCount     flexInt               `json:"like_count"`
	QuoteCount    flexInt               `json:"quote_count"`
	Text          flexString            `json:"text"`
	Media         json.RawMessage       `json:"media"`
	EnText        flexString            `json:"en_text"`
	StanzaOutput  json.RawMessage       `json:"stanza_output"`
	NamedEntities json.RawMessage       `json:"stanza_named_entities"`
	Sentiment     json.RawMessage       `json:"sentiment"`
	Stance        domain.StanceSequence `json:"stance"`
	Channel       flexString            `json:"channel"`
	Country       flexString            `json:"country"`
	Verified      flexString            `json:"verified"`
	FollowerCount flexInt               `json:"follower_count"`
	ImageTags     json.RawMessage       `json:"image_tags"`
}

func (w *wireRecord) record() *domain.Record {
	return &domain.Record{
		TweetID:       w.TweetID.value,
		AuthorID:      w.AuthorID.value,
		CreatedAt:     w.CreatedAt.value,
		Lang:          w.Lang.value,
		RetweetCount:  w.RetweetCount.ptr(),
		ReplyCount:    w.ReplyCount.ptr(),
		LikeCount:     w.LikeCount.ptr(),
		QuoteCount:    w.QuoteCount.ptr(),
		Text:          w.Text.value,
		EnText:        w.EnText.value,
		Media:         annotation(w.Media),
		StanzaOutput:  annotation(w.StanzaOutput),
		NamedEntities: annotation(w.NamedEntities),
		Sentiment:     annotation(w.Sentiment),
		ImageTags:     annotation(w.ImageTags),
		Stance:        w.Stance,
		Channel:       w.Channel.value,
		Country:       w.Country.value,
		Verified:      w.Verified.value,
		FollowerCount: w.FollowerCount.ptr(),
	}
}

// dropped lists the fields whose values could not be used, as
// "field: reason".
func (w *wireRecord) dropped() []string {
	var out []string
	note := func(field, reason string) {
		if reason != "" {
			out = append(out, field+": "+reason)
		}
	}
	note("tweet_id", w.TweetID.dropped)
	note("author_id", w.AuthorID.dropped)
	note("created_at", w.CreatedAt.dropped)
	note("lang", w.Lang.dropped)
	note("retweet_count", w.RetweetCount.dropped)
	note("reply_count", w.ReplyCount.dropped)
	note("like_count", w.LikeCount.dropped)
	note("quote_count", w.QuoteCount.dropped)
	note("text", w.Text.dropped)
	note("en_text", w.EnText.dropped)
	note("channel", w.Channel.dropped)
	note("country", w.Country.dropped)
	note("verified", w.Verified.dropped)
	note("follower_count", w.FollowerCount.dropped)
	return out
}

// annotation drops null so absent and null annotations look the same.
func annotation(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

// flexString accepts strings, numbers and booleans. Numbers keep their
// literal text so large identifiers are not rounded. Objects and arrays
// decode as empty and are noted in dropped.
type flexString struct {
	value   string
	dropped string
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = flexString{}
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		s.value = v
	case data[0] == '{' || data[0] == '[':
		s.dropped = "expected scalar, got " + kind(data)
	default:
		s.value = string(data)
	}
	return nil
}

// flexInt is a non-negative counter that may arrive as an integer, an
// integral float, a numeric string or null. Anything else decodes as absent
// and is noted in dropped.
type flexInt struct {
	value   int64
	valid   bool
	dropped string
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	*n = flexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
	} else if data[0] == '{' || data[0] == '[' || data[0] == 't' || data[0] == 'f' {
		n.dropped = "expected integer, got " + kind(data)
		return nil
	}

	v, ok := parseCount(text)
	switch {
	case !ok:
		n.dropped = fmt.Sprintf("expected integer, got %q", text)
	case v < 0:
		n.dropped = fmt.Sprintf("negative count %d", v)
	default:
		*n = flexInt{value: v, valid: true}
	}
	return nil
}

func parseCount(text string) (int64, bool) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func (n flexInt) ptr() *int64 {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

func kind(data []byte) string {
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	default:
		return "value"
	}
}
