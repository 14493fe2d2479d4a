package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopifyfeed/internal/model"
)

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello world", "Hello world"},
		{"simple tags", "<p>Hello</p>", "Hello"},
		{"contiguous tags", "<div><p><b>Bold</b></p></div>", "Bold"},
		{"attributes", `<a href="https://x.com/a>b">link</a>`, `b">link`},
		{"non ascii dropped", "Olá café – 100% algodão", "Ol caf  100% algodo"},
		{"emoji", "Shoes 👟 for you", "Shoes  for you"},
		{"tags and unicode", "<p>Crème brûlée</p>", "Crme brle"},
		{"newline inside brackets kept", "a <\n> b", "a <\n> b"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeText(tc.in))
		})
	}
}

func TestSanitizeNullBody(t *testing.T) {
	assert.Equal(t, "", Sanitize(model.NullString{}))
	assert.Equal(t, "x", Sanitize(model.NullString{String: "<i>x</i>", Valid: true}))
}

func TestSanitizeIdempotentAndClean(t *testing.T) {
	inputs := []string{
		"<<a>b>",
		"a<b<c>d>e",
		"<p>Größe: <strong>XL</strong></p>\n<ul><li>Baumwolle</li></ul>",
		"1 < 2 and 3 > 2",
		"<é>tag with unicode inside</é>",
		"<<<>>>",
		" &nbsp;<br/>\t",
	}
	for _, in := range inputs {
		once := SanitizeText(in)
		assert.Equal(t, once, SanitizeText(once), "not idempotent for %q", in)
		assert.False(t, tagPattern.MatchString(once), "tag left in %q", once)
		for _, r := range once {
			assert.Less(t, r, rune(128), "non-ascii left in %q", once)
		}
	}
}

func TestSanitizeRowsDoesNotMutateInput(t *testing.T) {
	rows := []model.ProductRow{
		{Handle: "a", Body: model.NullString{String: "<b>á</b>", Valid: true}},
		{Handle: "b"},
	}

	out := SanitizeRows(rows)

	assert.Equal(t, "<b>á</b>", rows[0].Body.String)
	assert.Equal(t, model.NullString{String: "", Valid: true}, out[0].Body)
	assert.Equal(t, model.NullString{String: "", Valid: true}, out[1].Body)
}
