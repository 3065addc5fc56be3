package decode

// ContentType is the fixed media type of every pipeline output.
const ContentType = "application/json"

// Output is the terminal artifact of one pipeline invocation: the derived
// destination key, the decoded JSON-compatible value, and the tag of the
// interpreter that produced it.
type Output struct {
	Key         string
	Value       any
	Tag         Tag
	ContentType string
}

// Pipeline sequences the decoding stages: decompress, interpreter chain,
// destination key derivation.
//
// A Pipeline is immutable after construction and safe for concurrent use;
// every Process call is an independent, invocation-local transformation.
type Pipeline struct {
	chain *Chain
}

// NewPipeline builds a pipeline around the default interpreter chain.
// Options are passed through to NewChain.
func NewPipeline(opts ...Option) *Pipeline {
	return &Pipeline{chain: NewChain(opts...)}
}

// Chain returns the pipeline's interpreter chain.
func (p *Pipeline) Chain() *Chain {
	return p.chain
}

// Process decodes one object. It is total over byte sequences: every
// buffer, the empty one included, yields exactly one output. Process is
// also deterministic, so reprocessing a redelivered object produces a
// byte-identical result.
func (p *Pipeline) Process(key string, raw []byte) Output {
	logical := Decompress(raw)
	res := p.chain.Run(Input{Raw: raw, Bytes: logical})
	return Output{
		Key:         DestinationKey(key),
		Value:       res.Value,
		Tag:         res.Tag,
		ContentType: ContentType,
	}
}
