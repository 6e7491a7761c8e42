package lex

import (
	"fmt"
)

var operatorKind = map[byte]Kind{
	'*': KindKleene,
	'+': KindPlus,
	'(': KindOpen,
	')': KindClose,
	'.': KindDot,
	'-': KindDash,
	'|': KindPipe,
}

// Tokenize implements spec.md §6's regex-tokenizer contract: a
// single-character-lookahead lexer producing a fixed seven-operator
// alphabet plus `char`, with backslash escapes `\n`, `\s`, `\\`, and `\c`
// for any other c. A trailing lone backslash is a fatal lexical error.
func Tokenize(pattern string) ([]Token, error) {
	toks := make([]Token, 0, len(pattern))

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]

		if c == '\\' {
			if i+1 >= len(pattern) {
				return nil, fmt.Errorf("lex: trailing backslash with nothing to escape")
			}
			esc := pattern[i+1]
			i++
			switch esc {
			case 'n':
				toks = append(toks, Token{Kind: KindChar, Lexeme: "\x0a"})
			case 's':
				toks = append(toks, Token{Kind: KindChar, Lexeme: "\x20"})
			case '\\':
				toks = append(toks, Token{Kind: KindChar, Lexeme: "\\"})
			default:
				toks = append(toks, Token{Kind: KindChar, Lexeme: string(esc)})
			}
			continue
		}

		if kind, ok := operatorKind[c]; ok {
			toks = append(toks, Token{Kind: kind, Lexeme: string(c)})
			continue
		}

		toks = append(toks, Token{Kind: KindChar, Lexeme: string(c)})
	}

	return toks, nil
}
