package derive

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"epiqc/pkg/contracts/domain"
)

// Formula evaluation is a three step state machine: substitute field
// tokens, validate the remaining characters, evaluate the arithmetic.
// Evaluation uses a dedicated tokenizer and recursive-descent parser
// over + - * / ( ) and numeric literals only; record values never reach
// a general-purpose interpreter. Any failure degrades to the empty
// string for that record and never aborts the batch.

var (
	fieldToken = regexp.MustCompile(`\{([^{}]+)\}`)
	arithmetic = regexp.MustCompile(`^[0-9+\-*/(). ]+$`)
)

// EvaluateFormula substitutes every {field} token with the record's value
// rendered as a decimal string (the literal token "null" when missing)
// and evaluates the resulting arithmetic expression, rounded to two
// decimal places. Expressions that fail validation, fail to parse, or
// produce a non-finite result yield "".
func EvaluateFormula(formula string, record domain.CaseRecord) string {
	substituted := fieldToken.ReplaceAllStringFunc(formula, func(token string) string {
		key := fieldToken.FindStringSubmatch(token)[1]
		value := record.Get(key)
		if value.IsMissing() {
			return "null"
		}
		return value.Text()
	})

	// Validate against the character whitelist with null tokens removed;
	// a remaining null still fails the parse below, as intended.
	checked := strings.ReplaceAll(substituted, "null", "")
	if strings.TrimSpace(checked) == "" || !arithmetic.MatchString(checked) {
		return ""
	}

	result, err := evaluate(substituted)
	if err != nil {
		return ""
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return ""
	}

	rounded := math.Round(result*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	num  float64
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ':
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokenPlus})
			i++
		case c == '-':
			tokens = append(tokens, token{kind: tokenMinus})
			i++
		case c == '*':
			tokens = append(tokens, token{kind: tokenStar})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokenSlash})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen})
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			num, err := strconv.ParseFloat(input[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", input[start:i])
			}
			tokens = append(tokens, token{kind: tokenNumber, num: num})
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	return tokens, nil
}

// parser is a recursive-descent parser over the grammar
//
//	expr   = term   { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = number | "(" expr ")" | ("+" | "-") factor
type parser struct {
	tokens []token
	pos    int
}

func evaluate(input string) (float64, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("empty expression")
	}
	p := &parser{tokens: tokens}
	result, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("unexpected trailing tokens")
	}
	return result, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok.kind != tokenPlus && tok.kind != tokenMinus) {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if tok.kind == tokenPlus {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok.kind != tokenStar && tok.kind != tokenSlash) {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return 0, err
		}
		if tok.kind == tokenStar {
			left *= right
		} else {
			// Division by zero yields Inf/NaN, caught by the caller.
			left /= right
		}
	}
}

func (p *parser) factor() (float64, error) {
	tok, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	switch tok.kind {
	case tokenNumber:
		p.pos++
		return tok.num, nil
	case tokenMinus:
		p.pos++
		inner, err := p.factor()
		return -inner, err
	case tokenPlus:
		p.pos++
		return p.factor()
	case tokenLParen:
		p.pos++
		inner, err := p.expr()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokenRParen {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	default:
		return 0, fmt.Errorf("unexpected token")
	}
}
