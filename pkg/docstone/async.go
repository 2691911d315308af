package docstone

import "context"

type callOutcome[T any] struct {
	value T
	err   error
}

// withContext runs fn on its own goroutine and races it against ctx. The
// native call cannot be interrupted, so cancellation is best-effort: the
// caller gets ctx.Err() immediately while the engine finishes in the
// background and the result is dropped.
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	done := make(chan callOutcome[T], 1)
	go func() {
		value, err := fn()
		done <- callOutcome[T]{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case out := <-done:
		return out.value, out.err
	}
}

// ExtractFile extracts a document from disk, honoring context cancellation.
func ExtractFile(ctx context.Context, path string, cfg *ExtractionConfig) (*ExtractionResult, error) {
	return withContext(ctx, func() (*ExtractionResult, error) {
		return ExtractFileSync(path, cfg)
	})
}

// ExtractBytes extracts an in-memory document, honoring context
// cancellation.
func ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg *ExtractionConfig) (*ExtractionResult, error) {
	return withContext(ctx, func() (*ExtractionResult, error) {
		return ExtractBytesSync(data, mimeType, cfg)
	})
}

// BatchExtractFiles extracts several files, honoring context cancellation.
func BatchExtractFiles(ctx context.Context, paths []string, cfg *ExtractionConfig) ([]*ExtractionResult, error) {
	return withContext(ctx, func() ([]*ExtractionResult, error) {
		return BatchExtractFilesSync(paths, cfg)
	})
}

// BatchExtractBytes extracts several in-memory documents, honoring context
// cancellation.
func BatchExtractBytes(ctx context.Context, docs []BytesDocument, cfg *ExtractionConfig) ([]*ExtractionResult, error) {
	return withContext(ctx, func() ([]*ExtractionResult, error) {
		return BatchExtractBytesSync(docs, cfg)
	})
}
