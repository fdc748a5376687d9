package application

import "testing"

func TestExtractReplyStripsQuotedHistory(t *testing.T) {
	raw := "Sounds good to me.\r\n\r\nOn Tue, 12 May 2026, Alice wrote:\r\n> original text\r\n> more original text\r\n"
	if got := ExtractReply(raw); got != "Sounds good to me." {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractReplyStripsInterleavedQuotes(t *testing.T) {
	raw := "> what time works?\nAnytime after lunch.\n> where?\nThe usual place."
	want := "Anytime after lunch.\nThe usual place."
	if got := ExtractReply(raw); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractReplyStopsAtSignature(t *testing.T) {
	raw := "See attached notes.\n-- \nJane Doe\nSenior Widget Engineer"
	if got := ExtractReply(raw); got != "See attached notes." {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractReplyStopsAtOriginalMessageMarker(t *testing.T) {
	raw := "Agreed.\n----- Original Message -----\nFrom: someone\nbody"
	if got := ExtractReply(raw); got != "Agreed." {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractReplyKeepsPlainText(t *testing.T) {
	raw := "Just a plain reply\nwith two lines"
	if got := ExtractReply(raw); got != raw {
		t.Fatalf("plain text must pass through, got %q", got)
	}
}
