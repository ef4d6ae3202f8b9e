package telegram

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "5", want: "5"},
		{input: "-3.5", want: "-3.5"},
		{input: "-3,5", want: "-3.5"},
		{input: "+10", want: "10"},
		{input: "0", want: "0"},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseThreshold(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestParseSymbol(t *testing.T) {
	if got, err := ParseSymbol(" btc "); err != nil || got != "BTC" {
		t.Fatalf("got %q, %v", got, err)
	}
	if got, err := ParseSymbol("thyao.is"); err != nil || got != "THYAO.IS" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := ParseSymbol("not a symbol"); err == nil {
		t.Fatal("expected error for text with spaces")
	}
	if _, err := ParseSymbol(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParseSymbolsDeduplicates(t *testing.T) {
	symbols, err := ParseSymbols("btc eth BTC sol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"BTC", "ETH", "SOL"}
	if len(symbols) != len(want) {
		t.Fatalf("got %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Fatalf("got %v, want %v", symbols, want)
		}
	}
}

func TestParseShortID(t *testing.T) {
	if got, err := ParseShortID("#7"); err != nil || got != 7 {
		t.Fatalf("got %d, %v", got, err)
	}
	if got, err := ParseShortID("12"); err != nil || got != 12 {
		t.Fatalf("got %d, %v", got, err)
	}
	if _, err := ParseShortID("0"); err == nil {
		t.Fatal("expected error for zero")
	}
	if _, err := ParseShortID("#x"); err == nil {
		t.Fatal("expected error for non-numeric")
	}
}

func TestParseAmount(t *testing.T) {
	if got, err := ParseAmount("1,5"); err != nil || !got.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("got %s, %v", got, err)
	}
	if _, err := ParseAmount("-2"); err == nil {
		t.Fatal("expected error for negative amount")
	}
	if _, err := ParseAmount("0"); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestParseListName(t *testing.T) {
	if got, err := ParseListName(" My_List "); err != nil || got != "my_list" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := ParseListName("has space"); err == nil {
		t.Fatal("expected error for name with spaces")
	}
}
