//go:build property

package manifest

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestManifestProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9753)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("splice then extract returns the blob", prop.ForAll(
		func(prefix, old, suffix, blob string) bool {
			doc := []byte(prefix + string(StartMarker) + old + string(EndMarker) + suffix)
			out := Splice(doc, []byte(blob))
			got, ok := Extract(out)
			return ok && bytes.Equal(got, []byte(blob)) &&
				bytes.HasPrefix(out, []byte(prefix)) && bytes.HasSuffix(out, []byte(suffix))
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("documents without markers are untouched", prop.ForAll(
		func(doc, blob string) bool {
			return bytes.Equal(Splice([]byte(doc), []byte(blob)), []byte(doc))
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
