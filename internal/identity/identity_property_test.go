//go:build property

package identity

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestIdentityProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("identity depends only on content", prop.ForAll(
		func(data []byte) bool {
			streamed, err := OfReader(bytes.NewReader(data))
			return err == nil && streamed == Of(data) && Of(bytes.Clone(data)) == Of(data)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("appending a byte changes the identity", prop.ForAll(
		func(data []byte, extra byte) bool {
			return Of(data) != Of(append(bytes.Clone(data), extra))
		},
		gen.SliceOf(gen.UInt8()),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
