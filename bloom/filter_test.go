package bloom_test

import (
	"testing"

	"github.com/docdex/docdex/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/docs/intro"))

	f.Add("https://example.com/docs/intro")
	assert.True(t, f.Test("https://example.com/docs/intro"))

	// No false negatives for added items.
	for _, u := range []string{"a", "b", "c"} {
		f.Add(u)
	}
	for _, u := range []string{"a", "b", "c"} {
		assert.True(t, f.Test(u))
	}
}
