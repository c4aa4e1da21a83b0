package types

import (
	"errors"
	"testing"
)

func TestErrorWrappersKeepCauseInspectable(t *testing.T) {
	cause := errors.New("no results for query")
	cases := []struct {
		name  string
		err   error
		class error
	}{
		{"upstream", UpstreamGenerationError("stock", cause), ErrUpstreamGeneration},
		{"asset", AssetFetchError("bgm_calm", cause), ErrAssetFetch},
		{"composition", CompositionError("concat scenes", cause), ErrComposition},
		{"render", RenderError(cause), ErrRender},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !errors.Is(c.err, c.class) {
				t.Fatalf("%v does not match its class %v", c.err, c.class)
			}
			// The provider's own sentinel must survive the wrapping, or
			// callers cannot tell a no-match apart from an outage.
			if !errors.Is(c.err, cause) {
				t.Fatalf("%v lost its cause %v", c.err, cause)
			}
		})
	}
}
