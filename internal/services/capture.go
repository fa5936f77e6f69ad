package services

// captureContent decides whether a content mutation must first create a
// version snapshot, and which content that snapshot holds.
//
// incoming nil means the mutation leaves content untouched; nothing is
// captured. When the stored content is non-empty it is the preserved value —
// a same-value update still captures, so clearing a document keeps its prior
// body recoverable. When the stored content is empty and the incoming value
// is the document's first real content, the incoming value itself is captured
// as the restorable anchor. Empty to empty captures nothing.
func captureContent(existing *string, incoming *string) (string, bool) {
	if incoming == nil {
		return "", false
	}
	if existing != nil && *existing != "" {
		return *existing, true
	}
	if *incoming != "" {
		return *incoming, true
	}
	return "", false
}
