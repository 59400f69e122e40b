package msblist

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_NUMBER = iota
	TOKEN_COMMA
	TOKEN_SEPARATOR
	TOKEN_COMMENT
)

// block ids used by the overworld grid
const (
	BLOCK_TILE = 0
	BLOCK_BIG  = 1
	BLOCK_HUGE = 2
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[\+\-]?[0-9]+`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`,`), getToken(TOKEN_COMMA))
	lexer.Add([]byte(`(;|\n|\r)+`), getToken(TOKEN_SEPARATOR))
	lexer.Add([]byte(`//[^\n]*`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte(`( |\t)+`), skip)

	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

// Entry is one target map slot: m{Map}_{X}_{Y}_{Block}
type Entry struct {
	Map, X, Y, Block int
}

func (e Entry) String() string {
	return fmt.Sprintf("m%02d_%02d_%02d_%02d", e.Map, e.X, e.Y, e.Block)
}

func scan(text []byte, fn func(tok *lexmachine.Token) error) error {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return errors.Wrapf(err, "Failed to create lexer scanner")
	}
	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return errors.Wrapf(err, "Failed to parse token")
		}
		if err := fn(itok.(*lexmachine.Token)); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads list of "m,x,y,b" entries separated by ';' or new lines
func Parse(text []byte) ([]Entry, error) {
	result := make([]Entry, 0, 64)

	fields := make([]int, 0, 4)
	expectNumber := true

	flush := func(line int) error {
		if len(fields) == 0 {
			return nil
		}
		if len(fields) != 4 || expectNumber {
			return errors.Errorf("Incomplete entry on line %v: %v", line, fields)
		}
		result = append(result, Entry{Map: fields[0], X: fields[1], Y: fields[2], Block: fields[3]})
		fields = fields[:0]
		expectNumber = true
		return nil
	}

	lastLine := 0
	err := scan(text, func(tok *lexmachine.Token) error {
		lastLine = tok.StartLine
		switch tok.Type {
		case TOKEN_NUMBER:
			if !expectNumber {
				return errors.Errorf("Missed comma on line %v (%q)", tok.StartLine, tok.Lexeme)
			}
			if len(fields) == 4 {
				return errors.Errorf("Too many fields on line %v (%q)", tok.StartLine, tok.Lexeme)
			}
			v, err := strconv.Atoi(string(tok.Lexeme))
			if err != nil {
				return errors.Wrapf(err, "Unknown number format on line %v", tok.StartLine)
			}
			fields = append(fields, v)
			expectNumber = false
		case TOKEN_COMMA:
			if expectNumber {
				return errors.Errorf("Unexpected comma on line %v", tok.StartLine)
			}
			expectNumber = true
		case TOKEN_SEPARATOR:
			return flush(tok.StartLine)
		case TOKEN_COMMENT:
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(lastLine); err != nil {
		return nil, err
	}
	return result, nil
}

// ParseNumbers reads list of unsigned integers separated by commas, ';' or new lines
func ParseNumbers(text []byte) ([]uint32, error) {
	result := make([]uint32, 0, 256)
	err := scan(text, func(tok *lexmachine.Token) error {
		if tok.Type != TOKEN_NUMBER {
			return nil
		}
		v, err := strconv.ParseUint(string(tok.Lexeme), 10, 32)
		if err != nil {
			return errors.Wrapf(err, "Invalid number on line %v (%q)", tok.StartLine, tok.Lexeme)
		}
		result = append(result, uint32(v))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
