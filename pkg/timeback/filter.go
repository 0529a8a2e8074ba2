package timeback

import (
	"fmt"
	"strings"
)

// Filter comparison operators accepted by the OneRoster filter syntax.
const (
	OpEqual          = "="
	OpNotEqual       = "!="
	OpGreater        = ">"
	OpLess           = "<"
	OpGreaterOrEqual = ">="
	OpLessOrEqual    = "<="
	OpContains       = "~"
)

// Logical combinators.
const (
	LogicalAnd = "AND"
	LogicalOr  = "OR"
)

var validOperators = map[string]bool{
	OpEqual:          true,
	OpNotEqual:       true,
	OpGreater:        true,
	OpLess:           true,
	OpGreaterOrEqual: true,
	OpLessOrEqual:    true,
	OpContains:       true,
}

type filterTokenKind int

const (
	tokenField filterTokenKind = iota
	tokenOperator
	tokenValue
	tokenLogical
	tokenOpenParen
	tokenCloseParen
)

type filterToken struct {
	kind  filterTokenKind
	text  string
	index int
}

// ValidateFilter checks the structure of a filter expression.
//
// An expression is one or more predicates of the form field<op>value joined by AND or OR,
// optionally grouped with parentheses. Values are quoted with ' or " or written bare.
// Operator precedence is not checked; the expression is sent verbatim.
func ValidateFilter(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return filterError("expression is empty")
	}

	tokens, err := tokenizeFilter(expr)
	if err != nil {
		return err
	}

	parser := &filterParser{tokens: tokens}

	err = parser.parseExpression()
	if err != nil {
		return err
	}

	if parser.pos < len(parser.tokens) {
		tok := parser.tokens[parser.pos]

		return filterError(fmt.Sprintf("unexpected %q at position %d", tok.text, tok.index))
	}

	return nil
}

func filterError(msg string) *ValidationError {
	return &ValidationError{Field: "filter", Message: msg}
}

func isOperatorChar(c byte) bool {
	return c == '=' || c == '!' || c == '>' || c == '<' || c == '~'
}

func isWordBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' ||
		c == '\'' || c == '"' || isOperatorChar(c)
}

//nolint:cyclop,funlen // single pass lexer
func tokenizeFilter(expr string) ([]filterToken, error) {
	var tokens []filterToken

	// a predicate is field, operator, value in that order; expectValue tracks the slot
	expectValue := false

	for i := 0; i < len(expr); {
		c := expr[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			tokens = append(tokens, filterToken{kind: tokenOpenParen, text: "(", index: i})
			i++

		case c == ')':
			tokens = append(tokens, filterToken{kind: tokenCloseParen, text: ")", index: i})
			i++

		case c == '\'' || c == '"':
			end := strings.IndexByte(expr[i+1:], c)
			if end < 0 {
				return nil, filterError(fmt.Sprintf("unclosed quote at position %d", i))
			}

			if !expectValue {
				return nil, filterError(fmt.Sprintf("quoted value without operator at position %d", i))
			}

			tokens = append(tokens, filterToken{kind: tokenValue, text: expr[i : i+end+2], index: i})
			expectValue = false
			i += end + 2

		case isOperatorChar(c):
			j := i
			for j < len(expr) && isOperatorChar(expr[j]) {
				j++
			}

			op := expr[i:j]
			if !validOperators[op] {
				return nil, filterError(fmt.Sprintf("unknown operator %q at position %d", op, i))
			}

			tokens = append(tokens, filterToken{kind: tokenOperator, text: op, index: i})
			expectValue = true
			i = j

		default:
			j := i
			for j < len(expr) && !isWordBoundary(expr[j]) {
				j++
			}

			word := expr[i:j]

			switch {
			case expectValue:
				tokens = append(tokens, filterToken{kind: tokenValue, text: word, index: i})
				expectValue = false
			case word == LogicalAnd || word == LogicalOr:
				tokens = append(tokens, filterToken{kind: tokenLogical, text: word, index: i})
			default:
				tokens = append(tokens, filterToken{kind: tokenField, text: word, index: i})
			}

			i = j
		}
	}

	return tokens, nil
}

type filterParser struct {
	tokens []filterToken
	pos    int
}

func (p *filterParser) peek() (filterToken, bool) {
	if p.pos >= len(p.tokens) {
		return filterToken{}, false
	}

	return p.tokens[p.pos], true
}

func (p *filterParser) parseExpression() error {
	err := p.parseTerm()
	if err != nil {
		return err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokenLogical {
			return nil
		}

		p.pos++

		if _, more := p.peek(); !more {
			return filterError(fmt.Sprintf("dangling %s at position %d", tok.text, tok.index))
		}

		err = p.parseTerm()
		if err != nil {
			return err
		}
	}
}

func (p *filterParser) parseTerm() error {
	tok, ok := p.peek()
	if !ok {
		return filterError("unexpected end of expression")
	}

	switch tok.kind {
	case tokenOpenParen:
		p.pos++

		err := p.parseExpression()
		if err != nil {
			return err
		}

		closing, ok := p.peek()
		if !ok || closing.kind != tokenCloseParen {
			return filterError(fmt.Sprintf("unbalanced parenthesis at position %d", tok.index))
		}

		p.pos++

		return nil

	case tokenField:
		return p.parsePredicate()

	case tokenCloseParen:
		return filterError(fmt.Sprintf("unbalanced parenthesis at position %d", tok.index))

	case tokenOperator, tokenValue, tokenLogical:
		return filterError(fmt.Sprintf("expected field name at position %d, got %q", tok.index, tok.text))
	}

	return filterError(fmt.Sprintf("unexpected %q at position %d", tok.text, tok.index))
}

func (p *filterParser) parsePredicate() error {
	field := p.tokens[p.pos]
	p.pos++

	op, ok := p.peek()
	if !ok || op.kind != tokenOperator {
		return filterError(fmt.Sprintf("field %q at position %d has no operator", field.text, field.index))
	}

	p.pos++

	value, ok := p.peek()
	if !ok || value.kind != tokenValue {
		return filterError(fmt.Sprintf("operator %q at position %d has no value", op.text, op.index))
	}

	p.pos++

	return nil
}

// Predicate renders a single comparison, quoting the value.
func Predicate(field, op, value string) string {
	quote := "'"
	if strings.Contains(value, "'") {
		quote = `"`
	}

	return field + op + quote + value + quote
}

// Eq renders field='value'.
func Eq(field, value string) string {
	return Predicate(field, OpEqual, value)
}

// And joins expressions with AND. Empty expressions are skipped.
func And(exprs ...string) string {
	return joinFilter(LogicalAnd, exprs)
}

// Or joins expressions with OR, grouping the result when more than one remains.
func Or(exprs ...string) string {
	joined := joinFilter(LogicalOr, exprs)
	if strings.Contains(joined, " "+LogicalOr+" ") {
		return "(" + joined + ")"
	}

	return joined
}

func joinFilter(op string, exprs []string) string {
	parts := make([]string, 0, len(exprs))

	for _, expr := range exprs {
		if strings.TrimSpace(expr) != "" {
			parts = append(parts, expr)
		}
	}

	return strings.Join(parts, " "+op+" ")
}
