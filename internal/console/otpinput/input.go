// Package otpinput models the segmented one-time-code input: one slot
// per digit, cursor movement, and whole-code paste.
package otpinput

// DefaultLength matches authenticator app codes.
const DefaultLength = 6

const empty = rune(0)

// Input is the code-entry state machine. The completion callback fires
// exactly once per fill, with the concatenated code; emptying any slot
// re-arms it.
type Input struct {
	slots      []rune
	cursor     int
	onComplete func(code string)
	fired      bool
}

func New(length int, onComplete func(code string)) *Input {
	if length <= 0 {
		length = DefaultLength
	}
	return &Input{
		slots:      make([]rune, length),
		onComplete: onComplete,
	}
}

func (in *Input) Length() int { return len(in.slots) }

// Cursor returns the focused slot index.
func (in *Input) Cursor() int { return in.cursor }

// Code returns the digits entered so far, skipping empty slots.
func (in *Input) Code() string {
	out := make([]rune, 0, len(in.slots))
	for _, r := range in.slots {
		if r != empty {
			out = append(out, r)
		}
	}
	return string(out)
}

// Filled reports whether every slot holds a digit.
func (in *Input) Filled() bool {
	for _, r := range in.slots {
		if r == empty {
			return false
		}
	}
	return true
}

// TypeRune enters a digit at the cursor and advances focus. Non-digit
// input is ignored.
func (in *Input) TypeRune(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	in.slots[in.cursor] = r
	if in.cursor < len(in.slots)-1 {
		in.cursor++
	}
	in.maybeComplete()
	return true
}

// Backspace clears the focused slot, or moves back and clears the
// previous one when the focused slot is already empty.
func (in *Input) Backspace() {
	if in.slots[in.cursor] == empty && in.cursor > 0 {
		in.cursor--
	}
	in.slots[in.cursor] = empty
	in.fired = false
}

// Left moves focus one slot back.
func (in *Input) Left() {
	if in.cursor > 0 {
		in.cursor--
	}
}

// Right moves focus one slot forward.
func (in *Input) Right() {
	if in.cursor < len(in.slots)-1 {
		in.cursor++
	}
}

// Paste accepts a full code in one go. The pasted text must be all
// digits and exactly the configured length; anything else leaves the
// input untouched.
func (in *Input) Paste(text string) bool {
	runes := []rune(text)
	if len(runes) != len(in.slots) {
		return false
	}
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}

	copy(in.slots, runes)
	in.cursor = len(in.slots) - 1
	in.maybeComplete()
	return true
}

// Clear empties every slot and re-arms the completion callback.
func (in *Input) Clear() {
	for i := range in.slots {
		in.slots[i] = empty
	}
	in.cursor = 0
	in.fired = false
}

func (in *Input) maybeComplete() {
	if in.fired || !in.Filled() {
		return
	}
	in.fired = true
	if in.onComplete != nil {
		in.onComplete(in.Code())
	}
}
