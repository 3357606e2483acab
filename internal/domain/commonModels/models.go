package commonModels

// Chunk is one bounded slice of source text, ready for embedding.
// Ordinal is the position within a single ingestion and becomes the
// vector id suffix.
type Chunk struct {
	Content string `json:"content"`
	Ordinal int    `json:"ordinal"`
}

// VectorMetadata travels with every stored vector. UserId scopes the
// vector to one caller; DataKey marks globally visible corpora
// (blog/post summaries). Empty fields stay empty strings on the wire.
type VectorMetadata struct {
	PageContent string `json:"pageContent"`
	UserId      string `json:"userId,omitempty"`
	DataKey     string `json:"dataKey,omitempty"`
	UniqueId    string `json:"uniqueId,omitempty"`
}

// IndexedVector is what gets upserted into the vector index.
// Id is uniqueId+dataKey+userId+"_"+ordinal, so re-ingesting the same
// source under the same scope overwrites instead of duplicating.
type IndexedVector struct {
	Id       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// RetrievalMatch is a single scored hit from a similarity query,
// returned in the index's relevance order.
type RetrievalMatch struct {
	Score    float32        `json:"score"`
	Metadata VectorMetadata `json:"metadata"`
}

// AccessScope expresses "visible to this caller": a vector matches if
// its userId equals UserId or its dataKey is one of DataKeys.
type AccessScope struct {
	UserId   string
	DataKeys []string
}
