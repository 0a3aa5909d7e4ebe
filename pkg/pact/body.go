package pact

type bodyState int

const (
	bodyMissing bodyState = iota
	bodyEmpty
	bodyPresent
)

// Body is an HTTP payload that distinguishes three states: missing (no body
// at all), empty (a body of zero bytes), and present. The distinction matters
// for matching: a request that carries no body is compared more leniently
// than one that carries an empty one.
type Body struct {
	state bodyState
	data  []byte
}

// MissingBody returns a Body in the missing state.
func MissingBody() Body {
	return Body{state: bodyMissing}
}

// EmptyBody returns a Body in the empty state.
func EmptyBody() Body {
	return Body{state: bodyEmpty}
}

// PresentBody returns a Body holding data. Zero-length data yields the
// empty state.
func PresentBody(data []byte) Body {
	if len(data) == 0 {
		return EmptyBody()
	}
	return Body{state: bodyPresent, data: data}
}

// IsMissing reports whether no body was supplied at all.
func (b Body) IsMissing() bool { return b.state == bodyMissing }

// IsEmpty reports whether a zero-byte body was supplied.
func (b Body) IsEmpty() bool { return b.state == bodyEmpty }

// IsPresent reports whether the body holds at least one byte.
func (b Body) IsPresent() bool { return b.state == bodyPresent }

// Bytes returns the payload bytes. Missing and empty bodies return nil.
func (b Body) Bytes() []byte { return b.data }

// String returns the payload as a string, or "" for missing/empty bodies.
func (b Body) String() string { return string(b.data) }

// Len returns the payload length in bytes.
func (b Body) Len() int { return len(b.data) }
