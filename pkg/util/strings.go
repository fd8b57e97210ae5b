package util

import (
    "strconv"
    "strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// NormalizeSymbol canonicalizes a trading pair symbol. Clients send
// "btcusdt", "BTC-USDT" or "BTC/USDT"; storage and the feed use "BTCUSDT".
func NormalizeSymbol(s string) string {
    s = strings.TrimSpace(s)
    s = strings.ReplaceAll(s, "-", "")
    s = strings.ReplaceAll(s, "/", "")
    return strings.ToUpper(s)
}
