package testutil

import (
	"github.com/google/go-cmp/cmp"
	"github.com/zclconf/go-cty/cty"
)

// CtyComparer compares cty values structurally. cty.NilVal only equals
// itself.
var CtyComparer = cmp.Comparer(func(a, b cty.Value) bool {
	if a == cty.NilVal || b == cty.NilVal {
		return a == cty.NilVal && b == cty.NilVal
	}
	return a.RawEquals(b)
})

// Diff returns a cmp diff of want and got that understands cty values.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, append([]cmp.Option{CtyComparer}, opts...)...)
}
