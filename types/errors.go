package types

import (
	"errors"
	"fmt"
)

// Script validation errors.
var (
	ErrEmptyScript    = errors.New("script has no scenes")
	ErrBadSceneSeq    = errors.New("scene sequence numbers must be unique positive integers")
	ErrEmptyNarrative = errors.New("scene narrative is empty")
)

// Failure classes for the pipeline. Scene-level failures (upstream generation,
// asset fetch) are recoverable: the scene is skipped or the optional asset is
// dropped. Composition failures drop the affected scene. Render failures are
// fatal for the run.
var (
	ErrUpstreamGeneration = errors.New("upstream generation failure")
	ErrAssetFetch         = errors.New("asset fetch failure")
	ErrComposition        = errors.New("composition failure")
	ErrRender             = errors.New("render failure")
)

// UpstreamGenerationError wraps a provider error (script, image, video, TTS,
// stock search) so callers can classify it with errors.Is(err, ErrUpstreamGeneration).
// The cause stays wrapped too, so provider sentinels remain inspectable.
func UpstreamGenerationError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamGeneration, provider, err)
}

// AssetFetchError wraps a cache/download error for an optional shared asset.
func AssetFetchError(key string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrAssetFetch, key, err)
}

// CompositionError wraps an internal mismatch while assembling or joining clips.
func CompositionError(stage string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrComposition, stage, err)
}

// RenderError wraps a final-encode error.
func RenderError(err error) error {
	return fmt.Errorf("%w: %w", ErrRender, err)
}
