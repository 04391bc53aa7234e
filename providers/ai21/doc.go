// Package ai21 provides an adapter for the AI21 Studio complete API.
//
// The conversation is combined into a single prompt. AI21 answers with one
// JSON document rather than a stream, so the document is decoded into a
// single canonical chunk and streaming callers receive a one-chunk stream.
package ai21
