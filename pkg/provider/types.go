package provider

// InvocationPayload is the backend-facing request body.
type InvocationPayload struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// ChunkKind classifies a chunk received from the backend. The set is closed:
// every backend variant maps to exactly one kind.
type ChunkKind int

const (
	ChunkContent  ChunkKind = iota // Partial model output, possibly empty
	ChunkTerminal                  // Any other backend variant
)

// String returns the kind name for logs.
func (k ChunkKind) String() string {
	switch k {
	case ChunkContent:
		return "content"
	case ChunkTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Chunk is one unit of data delivered by the backend stream.
type Chunk struct {
	// Kind selects which of the fields below are meaningful.
	Kind ChunkKind

	// Bytes is the raw partial output of a content chunk. It may be empty.
	Bytes []byte

	// Variant names the backend variant of a terminal marker.
	Variant string
}

// ContentChunk returns a content chunk carrying b.
func ContentChunk(b []byte) Chunk {
	return Chunk{Kind: ChunkContent, Bytes: b}
}

// TerminalChunk returns a terminal marker for the named backend variant.
func TerminalChunk(variant string) Chunk {
	return Chunk{Kind: ChunkTerminal, Variant: variant}
}
