package serialize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// parsePythonStrategy locates the Strategy(…) call in a Python module
// and parses its keyword arguments. Only the literal subset the emitter
// produces is recognized: strings, numbers, booleans, None, dicts,
// lists, and tuples. Anything else is a parse error.
func parsePythonStrategy(code string) (map[string]any, error) {
	lexer := &pythonLexer{input: code}

	tokens, err := lexer.tokenize()
	if err != nil {
		return nil, err
	}

	parser := &pythonParser{tokens: tokens}

	if !parser.seekCall("Strategy") {
		return nil, fmt.Errorf("aucun appel Strategy(…) trouvé")
	}

	return parser.parseKwargs()
}

type pythonTokenKind int

const (
	tokenIdent pythonTokenKind = iota
	tokenString
	tokenNumber
	tokenPunct
)

type pythonToken struct {
	kind  pythonTokenKind
	text  string
	value any
	line  int
}

type pythonLexer struct {
	input string
	pos   int
	line  int
}

func (l *pythonLexer) tokenize() ([]pythonToken, error) {
	l.line = 1

	var tokens []pythonToken

	for l.pos < len(l.input) {
		c := l.input[l.pos]

		switch {
		case c == '\n':
			l.line++
			l.pos++

		case c == ' ' || c == '\t' || c == '\r':
			l.pos++

		case c == '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}

		case c == '"' || c == '\'':
			s, err := l.lexString(c)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, pythonToken{kind: tokenString, value: s, line: l.line})

		case c >= '0' && c <= '9' || c == '-' || c == '.':
			tokens = append(tokens, l.lexNumber())

		case isIdentStart(rune(c)):
			tokens = append(tokens, l.lexIdent())

		case strings.ContainsRune("{}[](),:=", rune(c)):
			tokens = append(tokens, pythonToken{kind: tokenPunct, text: string(c), line: l.line})
			l.pos++

		default:
			return nil, fmt.Errorf("ligne %d: caractère inattendu %q", l.line, c)
		}
	}

	return tokens, nil
}

func (l *pythonLexer) lexString(quote byte) (string, error) {
	startLine := l.line
	l.pos++ // opening quote

	var sb strings.Builder

	for l.pos < len(l.input) {
		c := l.input[l.pos]

		switch c {
		case quote:
			l.pos++

			return sb.String(), nil

		case '\\':
			if l.pos+1 >= len(l.input) {
				return "", fmt.Errorf("ligne %d: chaîne non terminée", startLine)
			}

			l.pos++
			switch esc := l.input[l.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			case 'u':
				if l.pos+4 >= len(l.input) {
					return "", fmt.Errorf("ligne %d: échappement unicode invalide", l.line)
				}

				var r rune
				for _, h := range l.input[l.pos+1 : l.pos+5] {
					d, ok := hexDigit(h)
					if !ok {
						return "", fmt.Errorf("ligne %d: échappement unicode invalide", l.line)
					}
					r = r*16 + d
				}
				sb.WriteRune(r)
				l.pos += 4
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			l.pos++

		case '\n':
			return "", fmt.Errorf("ligne %d: chaîne non terminée", startLine)

		default:
			sb.WriteByte(c)
			l.pos++
		}
	}

	return "", fmt.Errorf("ligne %d: chaîne non terminée", startLine)
}

func (l *pythonLexer) lexNumber() pythonToken {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}

	for l.pos < len(l.input) && (l.input[l.pos] >= '0' && l.input[l.pos] <= '9' || l.input[l.pos] == '.' ||
		l.input[l.pos] == 'e' || l.input[l.pos] == 'E' ||
		(l.pos > start && (l.input[l.pos] == '+' || l.input[l.pos] == '-') &&
			(l.input[l.pos-1] == 'e' || l.input[l.pos-1] == 'E'))) {
		l.pos++
	}

	text := l.input[start:l.pos]

	return pythonToken{kind: tokenNumber, text: text, value: scalarValue(text), line: l.line}
}

func (l *pythonLexer) lexIdent() pythonToken {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
	}

	return pythonToken{kind: tokenIdent, text: l.input[start:l.pos], line: l.line}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func hexDigit(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	default:
		return 0, false
	}
}

type pythonParser struct {
	tokens []pythonToken
	pos    int
}

// seekCall advances past `name (` anywhere in the token stream.
func (p *pythonParser) seekCall(name string) bool {
	for i := 0; i+1 < len(p.tokens); i++ {
		if p.tokens[i].kind == tokenIdent && p.tokens[i].text == name &&
			p.tokens[i+1].kind == tokenPunct && p.tokens[i+1].text == "(" {
			p.pos = i + 2

			return true
		}
	}

	return false
}

// parseKwargs parses `ident=value, …)` into a generic map.
func (p *pythonParser) parseKwargs() (map[string]any, error) {
	kwargs := make(map[string]any)

	for {
		if p.peekPunct(")") {
			p.pos++

			return kwargs, nil
		}

		name, ok := p.nextIdent()
		if !ok {
			return nil, p.errorf("argument nommé attendu")
		}

		if !p.acceptPunct("=") {
			return nil, p.errorf("« = » attendu après %s", name)
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		kwargs[name] = value

		if p.acceptPunct(",") {
			continue
		}

		if p.peekPunct(")") {
			continue
		}

		return nil, p.errorf("« , » ou « ) » attendu")
	}
}

func (p *pythonParser) parseValue() (any, error) {
	token, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("fin de fichier inattendue")
	}

	switch token.kind {
	case tokenString:
		return token.value, nil

	case tokenNumber:
		return token.value, nil

	case tokenIdent:
		switch token.text {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		default:
			return nil, p.errorf("littéral attendu, identifiant %q trouvé", token.text)
		}

	case tokenPunct:
		switch token.text {
		case "{":
			return p.parseDict()
		case "[":
			return p.parseList("]")
		case "(":
			return p.parseList(")")
		}
	}

	return nil, p.errorf("littéral attendu, %q trouvé", token.text)
}

func (p *pythonParser) parseDict() (map[string]any, error) {
	dict := make(map[string]any)

	for {
		if p.acceptPunct("}") {
			return dict, nil
		}

		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		keyString, ok := key.(string)
		if !ok {
			return nil, p.errorf("clé de dictionnaire non textuelle")
		}

		if !p.acceptPunct(":") {
			return nil, p.errorf("« : » attendu après la clé %q", keyString)
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		dict[keyString] = value

		if !p.acceptPunct(",") && !p.peekPunct("}") {
			return nil, p.errorf("« , » ou « } » attendu")
		}
	}
}

func (p *pythonParser) parseList(closing string) ([]any, error) {
	list := []any{}

	for {
		if p.acceptPunct(closing) {
			return list, nil
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		list = append(list, value)

		if !p.acceptPunct(",") && !p.peekPunct(closing) {
			return nil, p.errorf("« , » ou « %s » attendu", closing)
		}
	}
}

func (p *pythonParser) next() (pythonToken, bool) {
	if p.pos >= len(p.tokens) {
		return pythonToken{}, false
	}

	token := p.tokens[p.pos]
	p.pos++

	return token, true
}

func (p *pythonParser) nextIdent() (string, bool) {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenIdent {
		name := p.tokens[p.pos].text
		p.pos++

		return name, true
	}

	return "", false
}

func (p *pythonParser) peekPunct(text string) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenPunct && p.tokens[p.pos].text == text
}

func (p *pythonParser) acceptPunct(text string) bool {
	if p.peekPunct(text) {
		p.pos++

		return true
	}

	return false
}

func (p *pythonParser) errorf(format string, args ...any) error {
	line := 0
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		line = p.tokens[p.pos-1].line
	}

	return fmt.Errorf("ligne %d: %s", line, fmt.Sprintf(format, args...))
}
