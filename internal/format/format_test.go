package format

import (
	"strings"
	"testing"
)

func TestAmountLargeValues(t *testing.T) {
	got := Amount(1234.5)
	if got != "1,234.50" {
		t.Fatalf("unexpected large amount: %s", got)
	}
	if !strings.Contains(got, ",") {
		t.Fatalf("expected thousands separator in %s", got)
	}
	if got := Amount(62340.123); got != "62,340.12" {
		t.Fatalf("unexpected amount: %s", got)
	}
	if got := Amount(1234567.89); got != "1,234,567.89" {
		t.Fatalf("unexpected amount: %s", got)
	}
}

func TestAmountMidRange(t *testing.T) {
	if got := Amount(42.12345); got != "42.1234" {
		t.Fatalf("unexpected mid-range amount: %s", got)
	}
	if got := Amount(1.0); got != "1.0000" {
		t.Fatalf("unexpected mid-range amount: %s", got)
	}
}

func TestAmountSmallValuesStripTrailingZeros(t *testing.T) {
	if got := Amount(0.00001234); got != "0.00001234" {
		t.Fatalf("unexpected small amount: %s", got)
	}
	if got := Amount(0.5); got != "0.5" {
		t.Fatalf("unexpected small amount: %s", got)
	}
	if got := Amount(0); got != "0" {
		t.Fatalf("unexpected zero amount: %s", got)
	}
	if strings.HasSuffix(Amount(0.0000123400), "0") {
		t.Fatalf("trailing zeros not stripped: %s", Amount(0.0000123400))
	}
}

func TestChangeCarriesExplicitSign(t *testing.T) {
	if got := Change(2.4); got != "+2.40%" {
		t.Fatalf("unexpected change: %s", got)
	}
	if got := Change(-1.825); got != "-1.82%" && got != "-1.83%" {
		t.Fatalf("unexpected change: %s", got)
	}
	if got := Change(0); got != "+0.00%" {
		t.Fatalf("unexpected change: %s", got)
	}
}

func TestChangeGlyph(t *testing.T) {
	if ChangeGlyph(1.5) != "📈" {
		t.Fatalf("expected up glyph")
	}
	if ChangeGlyph(-0.1) != "📉" {
		t.Fatalf("expected down glyph")
	}
}

func TestShortAddress(t *testing.T) {
	addr := "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8"
	got := ShortAddress(addr)
	if got != "0x742d35Cc...d8e8" {
		t.Fatalf("unexpected short address: %s", got)
	}
	if strings.Contains(got, addr[12:36]) {
		t.Fatalf("short address leaks the middle: %s", got)
	}
	if ShortAddress("0x1234") != "0x1234" {
		t.Fatalf("short inputs should pass through")
	}
}
