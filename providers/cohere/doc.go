// Package cohere provides an adapter for the Cohere generate API.
//
// The conversation is combined into a single prompt and the newline-delimited
// JSON stream is decoded into canonical chunks.
package cohere
