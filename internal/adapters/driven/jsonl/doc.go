// Package jsonl decodes line-delimited JSON post records.
//
// Each non-blank line must hold one JSON object. Unknown keys are ignored and
// numeric fields accept integers, integral floats, numeric strings or null,
// since upstream enrichment tools are not consistent about types.
package jsonl
