package dictionary

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(script string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>dict</title></head>
<body>
<p>results</p>
%s
</body>
</html>`, script))
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		html      []byte
		wantLeft  []string
		wantRight []string
	}{
		{
			name: "two arrays",
			html: page(`<script type="text/javascript">
var c1Arr = new Array("bonjour","au revoir");
var c2Arr = new Array("hello","goodbye");
</script>`),
			wantLeft:  []string{"hello", "goodbye"},
			wantRight: []string{"bonjour", "au revoir"},
		},
		{
			name: "empty entries become the placeholder",
			html: page(`<script>var c2Arr = new Array("hello","");
var c1Arr = new Array("bonjour","  ");</script>`),
			wantLeft:  []string{"hello", Placeholder},
			wantRight: []string{"bonjour", Placeholder},
		},
		{
			name: "escaped apostrophes are unescaped",
			html: page(`<script>var c1Arr = new Array("aujourd\'hui", "l\"eau\"");
var c2Arr = new Array("today", "water");</script>`),
			wantLeft:  []string{"today", "water"},
			wantRight: []string{"aujourd'hui", `l"eau"`},
		},
		{
			name: "whitespace runs collapse and separators may carry spaces",
			html: page(`<SCRIPT>
var   c1Arr   =   new   Array(  "ein    Haus" ,  "zwei"  );
var c2Arr = new Array(
	"a	house",
	"two"
);
</SCRIPT>`),
			wantLeft:  []string{"a house", "two"},
			wantRight: []string{"ein Haus", "zwei"},
		},
		{
			name: "commas inside entries do not split",
			html: page(`<script>var c1Arr = new Array("rouge, vert", "bleu");var c2Arr = new Array("red, green", "blue");</script>`),
			wantLeft:  []string{"red, green", "blue"},
			wantRight: []string{"rouge, vert", "bleu"},
		},
		{
			name: "malformed assignment is skipped in favor of a later one",
			html: page(`<script>var c1Arr = new Array(unquoted);</script>
<script>var c1Arr = new Array("bonjour");
var c2Arr = new Array("hello");</script>`),
			wantLeft:  []string{"hello"},
			wantRight: []string{"bonjour"},
		},
		{
			name: "first script region with arrays wins",
			html: page(`<script>var tracking = 1;</script>
<script>var c1Arr = new Array("eins");var c2Arr = new Array("one");</script>
<script>var c1Arr = new Array("zwei");var c2Arr = new Array("two");</script>`),
			wantLeft:  []string{"one"},
			wantRight: []string{"eins"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, got.Left)
			assert.Equal(t, tt.wantRight, got.Right)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		html []byte
	}{
		{
			name: "empty response",
			html: []byte(""),
		},
		{
			name: "no script region",
			html: page(`<p>var c1Arr = new Array("bonjour"); var c2Arr = new Array("hello");</p>`),
		},
		{
			name: "only one array",
			html: page(`<script>var c1Arr = new Array("bonjour");</script>`),
		},
		{
			name: "empty arrays",
			html: page(`<script>var c1Arr = new Array();var c2Arr = new Array();</script>`),
		},
		{
			name: "missing semicolon",
			html: page(`<script>var c1Arr = new Array("bonjour") var c2Arr = new Array("hello")</script>`),
		},
		{
			name: "unterminated script region",
			html: []byte(`<script>var c1Arr = new Array("bonjour");var c2Arr = new Array("hello");`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.html)
			require.Error(t, err)

			var extractionErr *ExtractionError
			assert.ErrorAs(t, err, &extractionErr)
			assert.ErrorIs(t, err, ErrNoArrayData)
		})
	}
}

func TestExtract_EqualLengths(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100} {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			left := make([]string, n)
			right := make([]string, n)
			for i := 0; i < n; i++ {
				left[i] = fmt.Sprintf(`"left %d"`, i)
				right[i] = fmt.Sprintf(`"right %d"`, i)
			}
			html := page(fmt.Sprintf("<script>var c1Arr = new Array(%s);\nvar c2Arr = new Array(%s);</script>",
				strings.Join(right, ","), strings.Join(left, ",")))

			got, err := Extract(html)
			require.NoError(t, err)
			assert.Len(t, got.Left, n)
			assert.Len(t, got.Right, n)
			assert.Equal(t, "left 0", got.Left[0])
			assert.Equal(t, "right 0", got.Right[0])
		})
	}
}

func TestExtract_HelloBonjour(t *testing.T) {
	html := page(`<script>
var c2Arr = new Array("hello","");
var c1Arr = new Array("bonjour","");
</script>`)

	pair, err := Extract(html)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Left: "hello", Right: "bonjour"},
	}, pair.Records())
}

func TestParseState_String(t *testing.T) {
	assert.Equal(t, "outsideScript", stateOutsideScript.String())
	assert.Equal(t, "insideScript", stateInsideScript.String())
	assert.Equal(t, "scanningArray1", stateScanningArray1.String())
	assert.Equal(t, "scanningArray2", stateScanningArray2.String())
}
