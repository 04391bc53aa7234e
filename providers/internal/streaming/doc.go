// Package streaming holds the building blocks shared by provider chunk decoders:
// record readers for newline-delimited JSON and server-sent events, a generic
// decoder state machine, and a chunk builder that fills in derived fields.
//
// Record readers buffer incomplete trailing records across reads, so record
// boundaries never need to line up with the fragments the transport delivers.
package streaming
