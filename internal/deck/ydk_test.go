package deck

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Blue-Eyes Deck":   "blue-eyes-deck",
		"Sky Striker 2024": "sky-striker-2024",
		"Éclair!":          "-clair-",
		"Dragon 😀":         "dragon--",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestWriteYDK(t *testing.T) {
	var buf bytes.Buffer
	err := WriteYDK(&buf, Lists{
		Main:  []CardRef{{ID: "89631139", Quantity: 2}},
		Extra: []CardRef{{ID: "44508094", Quantity: 1}},
	}, "tester")
	require.NoError(t, err)

	want := "#created by tester\n#main\n89631139\n89631139\n#extra\n44508094\n!side\n"
	assert.Equal(t, want, buf.String())
}

func TestParseYDK(t *testing.T) {
	in := strings.Join([]string{
		"#created by someone",
		"#main",
		"89631139",
		"14558127",
		"89631139",
		"",
		"#extra",
		"044508094",
		"not-a-card",
		"!side",
		"14558127",
	}, "\r\n")

	res, err := ParseYDK(strings.NewReader(in))
	require.NoError(t, err)

	want := Lists{
		Main:  []CardRef{{ID: "89631139", Quantity: 2}, {ID: "14558127", Quantity: 1}},
		Extra: []CardRef{{ID: "44508094", Quantity: 1}},
		Side:  []CardRef{{ID: "14558127", Quantity: 1}},
	}
	if diff := cmp.Diff(want, res.Lists); diff != "" {
		t.Errorf("lists mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{`line 9: unrecognized entry "not-a-card"`}, res.Warnings)
}

func TestYDK_RoundTripPreservesCounts(t *testing.T) {
	l := Lists{
		Main: []CardRef{{ID: "1", Quantity: 3}, {ID: "2", Quantity: 1}},
		Side: []CardRef{{ID: "3", Quantity: 2}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteYDK(&buf, l, "x"))

	res, err := ParseYDK(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, ComputeCardQuantity(res.Lists.Main))
	assert.Equal(t, 2, ComputeCardQuantity(res.Lists.Side))
	assert.Empty(t, res.Lists.Extra)
}
