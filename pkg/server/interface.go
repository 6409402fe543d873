/*
Package server implements msgpack IPC for pattern search.

The server reads a stream of msgpack maps from stdin and writes one msgpack map
per request to stdout. Requests are processed synchronously, one at a time,
with timing info included in search responses.

# IPC

On start the server announces itself:

	{"status": "ready"}

Search requests carry an ID, the pattern and an optional id limit:

	{"id": "req_001", "a": "search", "p": "ca{tn}", "l": 24, "w": true}

The action defaults to "search" when omitted. The server responds with the
matching ids in ascending order, the resolved words when asked for, the full
match count, the number of compiled templates and the time taken in
microseconds:

	{"id": "req_001", "i": [0, 2], "w": ["cat", "can"], "c": 2, "n": 2, "t": 41}

"c" always counts every match, even when "l" truncated "i" and "w".

Index statistics and liveness:

	{"id": "s1", "a": "stats"}   -> {"id": "s1", "words": 4, "lengths": 1, "postings": 12, "max_length": 3}
	{"id": "h1", "a": "health"}  -> {"id": "h1", "status": "ok"}

Failures are reported per request and never stop the loop:

	{"id": "req_002", "e": "pattern \"ab}\" at offset 2: invalid pattern: '}' without '{'", "c": 400}

Codes: 400 bad request or pattern, 429 rate limited, 500 internal error.
The loop ends cleanly when stdin reaches EOF.
*/
package server

// Actions understood by the server.
const (
	ActionSearch = "search"
	ActionStats  = "stats"
	ActionHealth = "health"
)

// Request is the single inbound message shape.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"a,omitempty"`
	Pattern string `msgpack:"p,omitempty"`
	Limit   int    `msgpack:"l,omitempty"`
	Words   *bool  `msgpack:"w,omitempty"` // nil falls back to server.include_words
}

// SearchResponse answers a search request.
type SearchResponse struct {
	ID        string   `msgpack:"id"`
	IDs       []int    `msgpack:"i"`
	Words     []string `msgpack:"w,omitempty"`
	Count     int      `msgpack:"c"`
	Templates int      `msgpack:"n"`
	TimeTaken int64    `msgpack:"t"`
}

// StatsResponse describes the loaded index.
type StatsResponse struct {
	ID        string `msgpack:"id"`
	Words     int    `msgpack:"words"`
	Lengths   int    `msgpack:"lengths"`
	Postings  int    `msgpack:"postings"`
	MaxLength int    `msgpack:"max_length"`
}

// StatusResponse is used for the ready banner and health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
