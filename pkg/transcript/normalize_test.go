package transcript

import (
	"html"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain markup untouched", `<p class="group/block">hi</p>`, `<p class="group/block">hi</p>`},
		{"single escape", `&lt;p&gt;hi&lt;/p&gt;`, `<p>hi</p>`},
		{"double escape", `&amp;lt;p&amp;gt;hi&amp;lt;/p&amp;gt;`, `<p>hi</p>`},
		{"quotes", `&lt;p class=&quot;a&quot;&gt;`, `<p class="a">`},
		{"partial entity passes through", `a &# b &zzz; c`, `a &# b &zzz; c`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_StableOnUnescapedInput(t *testing.T) {
	inputs := []string{
		`<p class="group/block"><span data-clipped="false">Hello</span></p>`,
		`&lt;p&gt;once&lt;/p&gt;`,
		`&amp;lt;p&amp;gt;twice&amp;lt;/p&amp;gt;`,
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
		assert.Equal(t, once, html.UnescapeString(once), "input %q", in)
	}
}
