package compiler

import (
	"reflect"
	"strings"
	"testing"
)

func TestSymbolPredicates(t *testing.T) {
	tests := []struct {
		sym                    Symbol
		terminal, nonTerm, act bool
		operator               bool
		str                    string
	}{
		{Term(IDENTIFIER), true, false, false, false, "IDENTIFIER"},
		{Term(PLUS), true, false, false, true, "PLUS"},
		{Term(LESS_EQ), true, false, false, true, "LESS_EQ"},
		{NT(EXPRESSION), false, true, false, false, "<EXPRESSION>"},
		{Act(STORE), false, false, true, false, "[STORE]"},
		{Act(COMPUTE), false, false, true, false, "[COMPUTE]"},
	}
	for _, tt := range tests {
		s := tt.sym
		if s.IsTerminal() != tt.terminal || s.IsNonTerminal() != tt.nonTerm || s.IsAction() != tt.act {
			t.Errorf("%v: predicates = %v/%v/%v", s, s.IsTerminal(), s.IsNonTerminal(), s.IsAction())
		}
		if s.IsOperator() != tt.operator {
			t.Errorf("%v.IsOperator() = %v, want %v", s, s.IsOperator(), tt.operator)
		}
		if s.String() != tt.str {
			t.Errorf("String() = %q, want %q", s.String(), tt.str)
		}
	}
}

func TestParseTableIsDense(t *testing.T) {
	table := NewParseTable()
	for nt := NonTerminal(0); nt < numNonTerminals; nt++ {
		if _, ok := table[nt]; !ok {
			t.Errorf("%v has no row", nt)
		}
		if len(table.Expected(nt)) == 0 {
			t.Errorf("%v has no productions", nt)
		}
	}
}

func TestParseTableEntries(t *testing.T) {
	table := NewParseTable()
	tests := []struct {
		nt   NonTerminal
		look TokenType
		want []Symbol
	}{
		{STATEMENT, VARIABLE, []Symbol{Term(VARIABLE), Term(IDENTIFIER), Act(DECLARE)}},
		{STATEMENT, IDENTIFIER, []Symbol{Term(IDENTIFIER), Term(ASSIGN), NT(EXPRESSION), Act(STORE)}},
		{STATEMENT, PRINT, []Symbol{Term(PRINT), Act(PRINT_HEADER), NT(PRINT_EXPRESSION)}},
		{PRINT_EXPRESSION, STRING, []Symbol{Term(STRING), Act(LOAD_CONST), Act(PRINT_SFOOTER)}},
		{PRINT_EXPRESSION, NUMBER, []Symbol{NT(EXPRESSION), Act(PRINT_IFOOTER)}},
		{TERM, NUMBER, []Symbol{Term(NUMBER), Act(PUSH)}},
		{TERM, LPAREN, []Symbol{Term(LPAREN), NT(EXPRESSION), Term(RPAREN)}},
		{ARITHMETIC_TERM, STAR, []Symbol{Term(STAR), Act(OP_PUSH), NT(TERM), Act(COMPUTE), NT(ARITHMETIC_TERM)}},
		{ARITHMETIC_TERM, RPAREN, []Symbol{}},
		{ARITHMETIC_TERM, ELSE, []Symbol{}},
		{ARITHMETIC_TERM, GREATER, []Symbol{}},
		{ELSE_CLAUSE, ELSE, []Symbol{Term(ELSE), NT(STATEMENT)}},
		{ELSE_CLAUSE, SEMICOLON, []Symbol{}},
		{SEPARATED_LIST, EOF, []Symbol{}},
		{RELATIONAL_OP, NOT_EQ, []Symbol{Term(NOT_EQ)}},
	}
	for _, tt := range tests {
		got, ok := table.Production(tt.nt, tt.look)
		if !ok {
			t.Errorf("no entry for (%v, %v)", tt.nt, tt.look)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("(%v, %v) = %v, want %v", tt.nt, tt.look, got, tt.want)
		}
	}
}

func TestParseTableMissingEntries(t *testing.T) {
	table := NewParseTable()
	missing := []struct {
		nt   NonTerminal
		look TokenType
	}{
		{STATEMENT, SEMICOLON},
		{STATEMENT, NUMBER},
		{STATEMENT_LIST, EOF},
		{TERM, STRING},
		{RELATIONAL_OP, PLUS},
		{BOOLEAN_EXPRESSION, STRING},
	}
	for _, m := range missing {
		if _, ok := table.Production(m.nt, m.look); ok {
			t.Errorf("unexpected entry for (%v, %v)", m.nt, m.look)
		}
	}
}

func TestParseTableProductionIsCopy(t *testing.T) {
	table := NewParseTable()
	body, _ := table.Production(STATEMENT, IDENTIFIER)
	body[0] = Act(GOTO_END)
	again, _ := table.Production(STATEMENT, IDENTIFIER)
	if again[0] != Term(IDENTIFIER) {
		t.Errorf("table entry was modified through a returned production: %v", again)
	}
}

func TestParseTableEntriesDoNotShareStorage(t *testing.T) {
	table := NewParseTable()
	a := table[EXPRESSION][IDENTIFIER]
	b := table[EXPRESSION][NUMBER]
	if &a[0] == &b[0] {
		t.Error("EXPRESSION productions share a backing array")
	}
}

func TestParseTableIsDeterministic(t *testing.T) {
	if NewParseTable().String() != NewParseTable().String() {
		t.Error("two tables render differently")
	}
	dump := NewParseTable().String()
	if !strings.Contains(dump, "ε") {
		t.Error("dump does not render epsilon productions")
	}
	if !strings.Contains(dump, "[DECLARE]") {
		t.Error("dump does not render actions")
	}
}

func TestExpectedIsSorted(t *testing.T) {
	got := NewParseTable().Expected(TERM)
	want := []TokenType{IDENTIFIER, NUMBER, LPAREN}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected(TERM) = %v, want %v", got, want)
	}
}

func TestParseTableActionUsage(t *testing.T) {
	used := make(map[Action]bool)
	for _, row := range NewParseTable() {
		for _, body := range row {
			for _, sym := range body {
				if sym.IsAction() {
					used[sym.Action] = true
				}
			}
		}
	}
	for a := Action(0); a < numActions; a++ {
		if a == GOTO_END {
			if used[a] {
				t.Errorf("%v is referenced by a production", a)
			}
			continue
		}
		if !used[a] {
			t.Errorf("%v is not referenced by any production", a)
		}
	}
}
