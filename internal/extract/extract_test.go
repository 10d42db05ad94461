package extract

import (
	"context"
	"testing"
)

func TestDecodeDropsInvalidSequences(t *testing.T) {
	raw := append([]byte("Python "), 0xff, 0xfe)
	raw = append(raw, []byte("and SQL")...)

	if got := Decode(raw); got != "Python and SQL" {
		t.Fatalf("expected invalid bytes dropped, got %q", got)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if got := Decode(nil); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestTextRawMode(t *testing.T) {
	got, err := Text(context.Background(), ModeRaw, []byte("%PDF-1.4 Django"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "%PDF-1.4 Django" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTextPDFModeFallsBackOnGarbage(t *testing.T) {
	raw := []byte("not really a pdf: html css")
	got, err := Text(context.Background(), ModePDF, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != string(raw) {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}

func TestTextHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, ModeRaw, []byte("x")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":     ModeRaw,
		"raw":  ModeRaw,
		"PDF":  ModePDF,
		" pdf": ModePDF,
		"ocr":  ModeRaw,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Fatalf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
}
