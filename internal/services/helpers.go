package services

import "context"

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// orderPair returns the two ids in ascending order. This is the canonical
// pair ordering that deduplicates (A,B) and (B,A) conversations.
func orderPair(a, b string) (low, high string) {
	if a <= b {
		return a, b
	}
	return b, a
}
