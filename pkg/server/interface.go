/*
Package server implements msgpack IPC for word lookup services.

The server reads a stream of msgpack requests from stdin and writes one msgpack response per request to stdout.
Requests are handled synchronously, in order, with timing info included in lookup responses.

# IPC

Every request is a map with an ID and an action. The action defaults to "lookup":

	{"id": "req_001", "w": "cat"}

The server answers with the output word paired with the input and the time taken in microseconds:

	{"id": "req_001", "w": "cat", "o": "dog", "t": 38}

Vocabulary words can be listed by prefix:

	{"id": "req_002", "action": "words", "p": "ca", "l": 5}
	{"id": "req_002", "s": ["ca", "car", "cat", "cats"], "c": 4}

Other actions are "info" (map and cache statistics), "reload" (rebuild from the source files) and "health".
A status message {"status": "ready"} is sent once before the first request is read.

Failed requests get an ErrorResponse with an HTTP-like code:

	400  malformed request, empty word or word too long
	404  the characters are known but the word is not in the vocabulary
	422  the word contains a character the model has never seen
	500  no map loaded, or a reload failed

Lookups are cached in an LRU keyed by word. The cache is dropped whenever the served map is replaced.
*/
package server

// Actions understood by the server.
const (
	ActionLookup = "lookup"
	ActionWords  = "words"
	ActionInfo   = "info"
	ActionReload = "reload"
	ActionHealth = "health"
)

// Request is the single request shape; fields are used per action.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Word   string `msgpack:"w,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
}

// LookupResponse - output word for a lookup
type LookupResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	Output    string `msgpack:"o"`
	TimeTaken int64  `msgpack:"t"`
}

// WordsResponse - vocabulary words for a prefix
type WordsResponse struct {
	ID    string   `msgpack:"id"`
	Words []string `msgpack:"s"`
	Count int      `msgpack:"c"`
}

// InfoResponse - map, runtime and cache statistics
type InfoResponse struct {
	ID          string  `msgpack:"id"`
	Words       int     `msgpack:"words"`
	Symbols     int     `msgpack:"symbols"`
	Characters  uint64  `msgpack:"characters"`
	Entropy     float64 `msgpack:"entropy"`
	Generation  uint64  `msgpack:"generation"`
	Source      string  `msgpack:"source,omitempty"`
	LoadedAt    int64   `msgpack:"loaded_at,omitempty"` // unix seconds
	Bijective   bool    `msgpack:"bijective"`
	Requests    uint64  `msgpack:"requests"`
	CacheSize   int     `msgpack:"cache_size"`
	CacheHits   uint64  `msgpack:"cache_hits"`
	CacheMisses uint64  `msgpack:"cache_misses"`
}

// StatusResponse - ready, health and reload acknowledgements
type StatusResponse struct {
	ID         string `msgpack:"id,omitempty"`
	Status     string `msgpack:"status"`
	Generation uint64 `msgpack:"generation,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}
