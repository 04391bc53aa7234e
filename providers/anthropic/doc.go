// Package anthropic provides an adapter for the Anthropic Messages API.
//
// System messages are combined into the request's system field; the remaining
// turns are sent as native messages. Replies are always requested as a
// server-sent event stream and decoded into canonical chunks.
package anthropic
