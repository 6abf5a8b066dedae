// Package server exposes the research agent over HTTP. The final answer is
// streamed in fixed-size chunks, either as server-sent events or over a
// websocket, terminated by a done payload with the full answer and
// citations.
package server
