// Package consteval evaluates default-value source text that consists only
// of constant literal tokens: numbers, strings, booleans, null, undefined
// and arrays of those. Anything else is rejected rather than interpreted.
package consteval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the run-time type of an evaluated constant.
type ValueKind int

const (
	Undefined ValueKind = iota
	Null
	Boolean
	Number
	String
	Array
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	default:
		return "undefined"
	}
}

// Value is an evaluated constant. Text is the token text for scalars.
type Value struct {
	Kind  ValueKind
	Text  string
	Items []Value
}

// ErrNotConstant is wrapped by every evaluation failure.
var ErrNotConstant = errors.New("not a constant expression")

// Eval parses src as a single constant expression.
func Eval(src string) (Value, error) {
	p := &evaluator{src: src}
	p.skipSpace()
	if p.eof() {
		return Value{}, p.fail("empty expression")
	}
	v, err := p.expr(0)
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Value{}, p.fail("unexpected trailing input")
	}
	return v, nil
}

// maxNesting bounds parentheses and array nesting.
const maxNesting = 64

type evaluator struct {
	src string
	pos int
}

func (p *evaluator) eof() bool { return p.pos >= len(p.src) }

func (p *evaluator) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *evaluator) fail(msg string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrNotConstant, msg, p.pos)
}

func (p *evaluator) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *evaluator) expr(depth int) (Value, error) {
	if depth > maxNesting {
		return Value{}, p.fail("nesting too deep")
	}
	p.skipSpace()
	switch c := p.peek(); {
	case c == '-' || c == '+':
		p.pos++
		p.skipSpace()
		operand, err := p.expr(depth + 1)
		if err != nil {
			return Value{}, err
		}
		if operand.Kind != Number {
			return Value{}, p.fail("unary sign on non-number")
		}
		return Value{Kind: Number, Text: string(c) + operand.Text}, nil
	case c == '(':
		p.pos++
		v, err := p.expr(depth + 1)
		if err != nil {
			return Value{}, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return Value{}, p.fail("expected )")
		}
		p.pos++
		return v, nil
	case c == '[':
		return p.array(depth)
	case c == '\'' || c == '"':
		return p.quoted(c)
	case c == '`':
		return p.template()
	case c == '.' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		return p.keyword(depth)
	default:
		return Value{}, p.fail(fmt.Sprintf("unexpected %q", c))
	}
}

func (p *evaluator) array(depth int) (Value, error) {
	p.pos++ // [
	v := Value{Kind: Array}
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return v, nil
		}
		item, err := p.expr(depth + 1)
		if err != nil {
			return Value{}, err
		}
		v.Items = append(v.Items, item)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return v, nil
		default:
			return Value{}, p.fail("expected , or ]")
		}
	}
}

func (p *evaluator) quoted(quote byte) (Value, error) {
	start := p.pos
	p.pos++
	for !p.eof() {
		switch c := p.src[p.pos]; c {
		case '\\':
			p.pos += 2
		case '\n', '\r':
			return Value{}, p.fail("newline in string")
		case quote:
			p.pos++
			return Value{Kind: String, Text: p.src[start:p.pos]}, nil
		default:
			p.pos++
		}
	}
	return Value{}, p.fail("unterminated string")
}

// template accepts backtick strings without substitutions.
func (p *evaluator) template() (Value, error) {
	start := p.pos
	p.pos++
	for !p.eof() {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case '$':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '{' {
				return Value{}, p.fail("template substitution")
			}
			p.pos++
		case '`':
			p.pos++
			return Value{Kind: String, Text: p.src[start:p.pos]}, nil
		default:
			p.pos++
		}
	}
	return Value{}, p.fail("unterminated template")
}

func (p *evaluator) number() (Value, error) {
	start := p.pos
	for !p.eof() && isNumberChar(p.src[p.pos], p.src[start:p.pos]) {
		p.pos++
	}
	text := p.src[start:p.pos]
	if !validNumber(text) {
		p.pos = start
		return Value{}, p.fail("malformed number " + strconv.Quote(text))
	}
	return Value{Kind: Number, Text: text}, nil
}

func (p *evaluator) keyword(depth int) (Value, error) {
	start := p.pos
	for !p.eof() && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "true", "false":
		return Value{Kind: Boolean, Text: word}, nil
	case "null":
		return Value{Kind: Null, Text: word}, nil
	case "undefined":
		return Value{Kind: Undefined, Text: word}, nil
	case "NaN", "Infinity":
		return Value{Kind: Number, Text: word}, nil
	case "void":
		if _, err := p.expr(depth + 1); err != nil {
			return Value{}, err
		}
		return Value{Kind: Undefined, Text: "undefined"}, nil
	default:
		p.pos = start
		return Value{}, p.fail("identifier " + strconv.Quote(word))
	}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || c == '$' || (c|0x20 >= 'a' && c|0x20 <= 'z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// isNumberChar accepts the characters of decimal, hex, octal, binary and
// BigInt literals, including an exponent sign right after e/E.
func isNumberChar(c byte, sofar string) bool {
	if isDigit(c) || c == '.' || c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') {
		return true
	}
	if (c == '+' || c == '-') && sofar != "" {
		last := sofar[len(sofar)-1] | 0x20
		return last == 'e' && !strings.HasPrefix(strings.ToLower(sofar), "0x")
	}
	return false
}

func validNumber(text string) bool {
	if text == "" || strings.HasPrefix(text, "_") || strings.HasSuffix(text, "_") || strings.Contains(text, "__") {
		return false
	}
	clean := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(clean)
	if len(lower) > 2 && lower[0] == '0' && (lower[1] == 'x' || lower[1] == 'o' || lower[1] == 'b') {
		digits := strings.TrimSuffix(lower[2:], "n")
		return digits != "" && allDigits(digits, map[byte]int{'x': 16, 'o': 8, 'b': 2}[lower[1]])
	}
	if strings.HasSuffix(lower, "n") {
		return allDigits(strings.TrimSuffix(lower, "n"), 10)
	}
	if strings.ContainsAny(lower, "abcdfghijklmnopqrstuvwxyz") {
		return false
	}
	_, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		var numErr *strconv.NumError
		// Out-of-range literals are still valid source ("1e999" is Infinity).
		return errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)
	}
	return true
}

func allDigits(s string, base int) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v int
		switch {
		case isDigit(c):
			v = int(c - '0')
		case c >= 'a' && c <= 'f':
			v = int(c-'a') + 10
		default:
			return false
		}
		if v >= base {
			return false
		}
	}
	return true
}
