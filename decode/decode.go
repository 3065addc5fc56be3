// Package decode turns an opaque TSDB storage artifact into a
// JSON-compatible value.
//
// Decoding is a two-stage pipeline. Decompress first normalizes the raw
// buffer into a logical view by probing known codecs. The Chain then runs
// an ordered list of content interpreters over the logical bytes and adopts
// the value from the first one that matches. The final interpreter matches
// any input, so the chain is total: every buffer decodes to something, in
// the worst case a base64 wrapper around the original bytes.
//
// The chain order is deliberate: structural signals (a record that parses
// against the expected wire schema, an explicit content marker) are probed
// before loose ones (valid JSON, valid UTF-8), so that a tab-separated
// index table is not misread as plain text.
package decode

// Tag identifies which interpreter produced a decoded value.
type Tag string

// Encoding tags, one per interpreter in chain order.
const (
	TagRecord Tag = "protobuf"
	TagIndex  Tag = "index"
	TagSeries Tag = "series"
	TagJSON   Tag = "json"
	TagText   Tag = "text"
	TagBase64 Tag = "base64"
)

// Input is one buffer as seen by the interpreter chain.
//
// Bytes is the logical view produced by Decompress. Raw is the original,
// pre-decompression buffer; only the terminal base64 interpreter reads it,
// so that uninterpretable binary round-trips losslessly.
type Input struct {
	Raw   []byte
	Bytes []byte
}

// Interpreter attempts to decode one content shape.
//
// Attempt returns the decoded value and true on a match, or nil and false
// when the buffer is not this shape. A failed attempt is expected and
// drives fallthrough to the next interpreter; it is never an error.
type Interpreter interface {
	// Tag returns the encoding tag attached to values this interpreter produces.
	Tag() Tag

	// Attempt tries to decode the input.
	Attempt(in Input) (any, bool)
}

// Result is the outcome of running the chain: a JSON-compatible value and
// the tag of the interpreter that produced it.
type Result struct {
	Value any
	Tag   Tag
}

// Chain is an ordered list of interpreters ending in the terminal base64
// fallback. The zero value is not usable; construct with NewChain.
type Chain struct {
	interpreters []Interpreter
}

// Option configures chain construction.
type Option func(*chainConfig)

type chainConfig struct {
	records bool
}

// WithoutRecords omits the structured-record interpreter from the chain.
// Deployments that never see wire-format records can disable the probe
// up front instead of paying for a failed parse on every object.
func WithoutRecords() Option {
	return func(c *chainConfig) {
		c.records = false
	}
}

// NewChain builds the default interpreter chain:
// record, index, series, JSON, text, base64.
func NewChain(opts ...Option) *Chain {
	cfg := chainConfig{records: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var interpreters []Interpreter
	if cfg.records {
		interpreters = append(interpreters, recordInterpreter{})
	}
	interpreters = append(interpreters,
		indexInterpreter{},
		seriesInterpreter{},
		jsonInterpreter{},
		textInterpreter{},
		binaryInterpreter{},
	)
	return &Chain{interpreters: interpreters}
}

// Tags returns the encoding tags of the chain's interpreters in probe order.
func (c *Chain) Tags() []Tag {
	tags := make([]Tag, 0, len(c.interpreters))
	for _, in := range c.interpreters {
		tags = append(tags, in.Tag())
	}
	return tags
}

// Run probes the interpreters in order and returns the first match.
// The terminal interpreter matches everything, so Run always returns a
// result.
func (c *Chain) Run(in Input) Result {
	for _, interp := range c.interpreters {
		if v, ok := interp.Attempt(in); ok {
			return Result{Value: v, Tag: interp.Tag()}
		}
	}
	// Unreachable with a NewChain-built chain; kept so a hand-assembled
	// chain still satisfies totality.
	v, _ := binaryInterpreter{}.Attempt(in)
	return Result{Value: v, Tag: TagBase64}
}
