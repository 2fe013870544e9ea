package lazyargs

import (
	"strconv"
)

// Stream is an argument list with a consumed set. The tokens themselves are
// never reordered or modified; consuming a token only hides it from later
// lookups. Indexes reported by matches and errors are positions in the full
// argument list.
type Stream struct {
	tokens   []string
	consumed []bool
}

// NewStream copies tokens into a new stream. The caller's slice is not
// retained.
func NewStream(tokens []string) *Stream {
	cp := make([]string, len(tokens))
	copy(cp, tokens)
	return &Stream{
		tokens:   cp,
		consumed: make([]bool, len(cp)),
	}
}

// Remaining returns the unconsumed tokens in their original order.
func (s *Stream) Remaining() []string {
	out := make([]string, 0, len(s.tokens))
	for i, tok := range s.tokens {
		if !s.consumed[i] {
			out = append(out, tok)
		}
	}
	return out
}

// Contains reports whether tok is present and unconsumed.
func (s *Stream) Contains(tok string) bool {
	return s.indexOf(tok) != -1
}

func (s *Stream) indexOf(tok string) int {
	if tok == "" {
		return -1
	}
	for i, t := range s.tokens {
		if !s.consumed[i] && t == tok {
			return i
		}
	}
	return -1
}

// next returns the first unconsumed index after i, or -1.
func (s *Stream) next(i int) int {
	for j := i + 1; j < len(s.tokens); j++ {
		if !s.consumed[j] {
			return j
		}
	}
	return -1
}

// Locate finds the occurrence of a field's long or short flag. The long form
// is checked first and wins when repetition is allowed. An empty short name
// disables the short lookup.
func (s *Stream) Locate(long, short string, allowRepeat bool) (Match, error) {
	m := Match{
		LongName:   long,
		LongIndex:  s.indexOf(long),
		ShortName:  short,
		ShortIndex: s.indexOf(short),
		Index:      -1,
		s:          s,
	}

	if !allowRepeat && m.LongIndex != -1 && m.ShortIndex != -1 {
		return Match{Index: -1}, &AmbiguousOptionError{
			Long:       long,
			LongIndex:  m.LongIndex,
			Short:      short,
			ShortIndex: m.ShortIndex,
			Tokens:     append([]string(nil), s.tokens...),
		}
	}

	switch {
	case m.LongIndex != -1:
		m.Index, m.Name = m.LongIndex, long
	case m.ShortIndex != -1:
		m.Index, m.Name = m.ShortIndex, short
	}
	return m, nil
}

// Match is the result of locating one field in a Stream.
type Match struct {
	LongName   string
	LongIndex  int
	ShortName  string
	ShortIndex int

	// Index and Name are the resolved occurrence; Index is -1 if neither
	// form was found.
	Index int
	Name  string

	s *Stream
}

// Empty reports whether neither form of the flag was found.
func (m Match) Empty() bool {
	return m.Index == -1
}

func (m Match) nextIndex() int {
	if m.Empty() || m.s == nil {
		return -1
	}
	return m.s.next(m.Index)
}

// HasNext reports whether a token follows the match.
func (m Match) HasNext() bool {
	return m.nextIndex() != -1
}

// NextLooksBoolean reports whether the following token is "true" or "false".
func (m Match) NextLooksBoolean() bool {
	i := m.nextIndex()
	if i == -1 {
		return false
	}
	tok := m.s.tokens[i]
	return tok == "true" || tok == "false"
}

// NextBool returns the following token read as a boolean literal.
func (m Match) NextBool() bool {
	i := m.nextIndex()
	return i != -1 && m.s.tokens[i] == "true"
}

// NextNumber parses the following token as a base-10 integer of the given
// bit size.
func (m Match) NextNumber(bitSize int) (int64, error) {
	i := m.nextIndex()
	if i == -1 {
		return 0, &MissingValueError{Flag: m.Name, Index: m.Index, Kind: KindNumber}
	}
	n, err := strconv.ParseInt(m.s.tokens[i], 10, bitSize)
	if err != nil {
		return 0, &InvalidNumberError{Flag: m.Name, Index: m.Index, Value: m.s.tokens[i], Err: err}
	}
	return n, nil
}

// NextUnsigned parses the following token as a base-10 unsigned integer.
func (m Match) NextUnsigned(bitSize int) (uint64, error) {
	i := m.nextIndex()
	if i == -1 {
		return 0, &MissingValueError{Flag: m.Name, Index: m.Index, Kind: KindNumber}
	}
	n, err := strconv.ParseUint(m.s.tokens[i], 10, bitSize)
	if err != nil {
		return 0, &InvalidNumberError{Flag: m.Name, Index: m.Index, Value: m.s.tokens[i], Err: err}
	}
	return n, nil
}

// NextString returns the following token verbatim.
func (m Match) NextString() (string, error) {
	i := m.nextIndex()
	if i == -1 {
		return "", &MissingValueError{Flag: m.Name, Index: m.Index, Kind: KindString}
	}
	return m.s.tokens[i], nil
}

// Consume marks the matched token and the n-1 tokens after it as consumed.
// Nothing is consumed if fewer than n tokens are available.
func (m Match) Consume(n int) error {
	if m.Empty() || n <= 0 {
		return nil
	}
	idx := make([]int, 0, n)
	for i := m.Index; i != -1 && len(idx) < n; i = m.s.next(i) {
		idx = append(idx, i)
	}
	if len(idx) < n {
		return &MissingValueError{Flag: m.Name, Index: m.Index, Kind: KindString}
	}
	for _, i := range idx {
		m.s.consumed[i] = true
	}
	return nil
}
