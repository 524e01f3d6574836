package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Tape provides sequential text I/O of machine values.
// Input is a stream of decimal integers separated by whitespace or commas.
// Output is written one decimal integer per line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner   *bufio.Scanner
	readIndex int
}

// isSeparator reports whether r splits two input tokens.
func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// scanValues is a bufio.SplitFunc returning separator-delimited tokens.
func scanValues(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSeparator(rune(data[start])) {
		start++
	}
	for end := start; end < len(data); end++ {
		if isSeparator(rune(data[end])) {
			return end + 1, data[start:end], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}

	return start, nil, nil
}

// Next reads the next value from the input stream.
// Returns io.EOF when the input is exhausted.
func (tc *Tape) Next() (value int64, err error) {
	if tc.Input == nil {
		err = io.EOF
		return
	}
	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(scanValues)
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	token := strings.TrimSpace(tc.scanner.Text())
	value, err = strconv.ParseInt(token, 10, 64)
	if err != nil {
		err = ErrValue{Index: tc.readIndex, Token: token}
		return
	}
	tc.readIndex++

	return
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)

	return
}
