package domain

import "encoding/json"

// Record is one ingested post with its enrichment fields.
// Records are append-only; only Labels change after ingestion.
type Record struct {
	// ID is the store-assigned row identifier. Zero before insertion.
	ID int64 `json:"id,omitempty"`

	// TweetID is the source post identifier. It is not unique in the store:
	// re-ingesting a file stores duplicates.
	TweetID string `json:"tweet_id"`

	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
	Lang      string `json:"lang"`

	// Engagement counters. Nil when absent from the source line.
	RetweetCount *int64 `json:"retweet_count"`
	ReplyCount   *int64 `json:"reply_count"`
	LikeCount    *int64 `json:"like_count"`
	QuoteCount   *int64 `json:"quote_count"`

	Text   string `json:"text"`
	EnText string `json:"en_text"`

	// Semi-structured annotations, kept verbatim as JSON.
	Media         json.RawMessage `json:"media,omitempty"`
	StanzaOutput  json.RawMessage `json:"stanza_output,omitempty"`
	NamedEntities json.RawMessage `json:"stanza_named_entities,omitempty"`
	Sentiment     json.RawMessage `json:"sentiment,omitempty"`
	ImageTags     json.RawMessage `json:"image_tags,omitempty"`

	// Stance holds the hypothesis scores. Nil means the field was absent.
	Stance StanceSequence `json:"stance"`

	Channel       string `json:"channel"`
	Country       string `json:"country"`
	Verified      string `json:"verified"`
	FollowerCount *int64 `json:"follower_count"`

	// Labels are the derived stance labels. Nil until the classifier runs.
	Labels *StanceLabels `json:"labels,omitempty"`
}

// Column describes a column added through schema evolution.
type Column struct {
	Name string
	// Definition is the SQL type and default, e.g. "INTEGER DEFAULT 0".
	Definition string
}

// LabelColumns returns the derived-label columns added before classification.
func LabelColumns() []Column {
	return []Column{
		{Name: "pro_russia", Definition: "INTEGER DEFAULT 0"},
		{Name: "pro_ukraine", Definition: "INTEGER DEFAULT 0"},
		{Name: "unsure", Definition: "INTEGER DEFAULT 0"},
	}
}
