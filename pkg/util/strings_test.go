package util

import "testing"

func TestNormalizeSymbol(t *testing.T) {
    cases := map[string]string{
        "btcusdt":   "BTCUSDT",
        "BTC-USDT":  "BTCUSDT",
        "btc/usdt":  "BTCUSDT",
        " ETHUSDT ": "ETHUSDT",
    }
    for in, want := range cases {
        if got := NormalizeSymbol(in); got != want {
            t.Fatalf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
        }
    }
}

func TestParseIntDefault(t *testing.T) {
    if got := ParseIntDefault("", 7); got != 7 {
        t.Fatalf("expected default, got %d", got)
    }
    if got := ParseIntDefault("42", 7); got != 42 {
        t.Fatalf("expected 42, got %d", got)
    }
    if got := ParseIntDefault("nope", 7); got != 7 {
        t.Fatalf("expected default on garbage, got %d", got)
    }
}
