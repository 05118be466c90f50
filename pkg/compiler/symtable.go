package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolTable maps identifier spellings to their canonical token. There is a
// single global scope; entries are added when first scanned and never
// removed. A token's Address stays 0 until the variable is declared.
type SymbolTable struct {
	entries map[string]*Token
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]*Token)}
}

// Intern returns the canonical token for tok's spelling, registering tok as
// the canonical one if the spelling has not been seen before.
func (s *SymbolTable) Intern(tok *Token) *Token {
	if canon, ok := s.entries[tok.Lexeme]; ok {
		return canon
	}
	s.entries[tok.Lexeme] = tok
	return tok
}

// Lookup returns the canonical token for name and whether it was found.
func (s *SymbolTable) Lookup(name string) (*Token, bool) {
	tok, ok := s.entries[name]
	return tok, ok
}

// Declare registers tok (if needed) and assigns it addr.
func (s *SymbolTable) Declare(tok *Token, addr int) {
	canon := s.Intern(tok)
	canon.Address = addr
}

// Declared returns the names that have an address, ordered by address.
func (s *SymbolTable) Declared() []*Token {
	var out []*Token
	for _, tok := range s.entries {
		if tok.Address != 0 {
			out = append(out, tok)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

func (s *SymbolTable) Len() int { return len(s.entries) }

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	if len(s.entries) == 0 {
		return "Symbols: (empty)\n"
	}
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Symbols:\n")
	for _, name := range names {
		tok := s.entries[name]
		if tok.Address == 0 {
			fmt.Fprintf(&sb, "  %-20s  (undeclared)\n", name)
			continue
		}
		fmt.Fprintf(&sb, "  %-20s  Address: %d\n", name, tok.Address)
	}
	return sb.String()
}
