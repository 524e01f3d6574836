package cpu

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Program is a decoded tape.
type Program []int64

// ParseProgram decodes comma separated decimal integers.
// Tokens may be signed and padded with whitespace.
func ParseProgram(text string) (prog Program, err error) {
	for n, token := range strings.Split(strings.TrimSpace(text), ",") {
		token = strings.TrimSpace(token)
		var value int64
		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			err = ErrSyntax{Index: n, Token: token, Err: errors.Join(ErrDecode, err)}
			prog = nil
			return
		}
		prog = append(prog, value)
	}

	return
}

// ReadProgram decodes a program from a reader.
func ReadProgram(r io.Reader) (prog Program, err error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return
	}

	return ParseProgram(string(text))
}

// String encodes the program as comma separated integers.
func (prog Program) String() string {
	var sb strings.Builder
	for n, value := range prog {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(value, 10))
	}
	return sb.String()
}
