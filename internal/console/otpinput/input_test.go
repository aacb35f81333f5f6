package otpinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_TypeAndComplete(t *testing.T) {
	var got []string
	in := New(6, func(code string) { got = append(got, code) })

	for _, r := range "123456" {
		assert.True(t, in.TypeRune(r))
	}

	require.Equal(t, []string{"123456"}, got)
	assert.True(t, in.Filled())
	assert.Equal(t, "123456", in.Code())
}

func TestInput_IgnoresNonDigits(t *testing.T) {
	in := New(6, nil)
	assert.False(t, in.TypeRune('a'))
	assert.False(t, in.TypeRune(' '))
	assert.Equal(t, "", in.Code())
	assert.Equal(t, 0, in.Cursor())
}

func TestInput_Paste(t *testing.T) {
	tests := []struct {
		name     string
		paste    string
		accepted bool
		fires    int
	}{
		{"exact digits", "123456", true, 1},
		{"too short", "12345", false, 0},
		{"too long", "1234567", false, 0},
		{"non-digit", "12a456", false, 0},
		{"empty", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := 0
			in := New(6, func(string) { fired++ })

			assert.Equal(t, tt.accepted, in.Paste(tt.paste))
			assert.Equal(t, tt.fires, fired)
			if !tt.accepted {
				assert.Equal(t, "", in.Code(), "rejected paste must leave input unchanged")
			}
		})
	}
}

func TestInput_CompletionFiresExactlyOnce(t *testing.T) {
	fired := 0
	in := New(6, func(string) { fired++ })

	require.True(t, in.Paste("123456"))
	assert.Equal(t, 1, fired)

	// Overtyping the last slot while already full does not re-fire.
	in.TypeRune('9')
	assert.Equal(t, 1, fired)

	// Emptying a slot re-arms the callback.
	in.Backspace()
	in.TypeRune('7')
	assert.Equal(t, 2, fired)
	assert.Equal(t, "123457", in.Code())
}

func TestInput_BackspaceMovesToPrevious(t *testing.T) {
	in := New(4, nil)
	in.TypeRune('1')
	in.TypeRune('2')
	assert.Equal(t, 2, in.Cursor())

	// Focused slot is empty, so backspace clears the previous one.
	in.Backspace()
	assert.Equal(t, 1, in.Cursor())
	assert.Equal(t, "1", in.Code())

	in.Backspace()
	assert.Equal(t, 0, in.Cursor())
	assert.Equal(t, "", in.Code())
}

func TestInput_ArrowNavigation(t *testing.T) {
	in := New(4, nil)
	in.Left()
	assert.Equal(t, 0, in.Cursor())

	in.Right()
	in.Right()
	assert.Equal(t, 2, in.Cursor())
	in.Right()
	in.Right()
	assert.Equal(t, 3, in.Cursor(), "cursor clamps at last slot")

	in.Left()
	assert.Equal(t, 2, in.Cursor())
}

func TestInput_Clear(t *testing.T) {
	fired := 0
	in := New(6, func(string) { fired++ })
	require.True(t, in.Paste("123456"))

	in.Clear()
	assert.Equal(t, "", in.Code())
	assert.Equal(t, 0, in.Cursor())

	require.True(t, in.Paste("654321"))
	assert.Equal(t, 2, fired)
}

func TestInput_DefaultLength(t *testing.T) {
	in := New(0, nil)
	assert.Equal(t, DefaultLength, in.Length())
}
