package upload_test

import (
	"strings"
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/system/upload"
)

func TestEncode(t *testing.T) {
	enc, err := upload.Encode("receipt.png", "image/png", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.Filename != "receipt.png" {
		t.Errorf("Filename = %q, want %q", enc.Filename, "receipt.png")
	}
	if !strings.HasPrefix(enc.DataURL, "data:image/png;base64,") {
		t.Errorf("DataURL prefix wrong: %q", enc.DataURL)
	}
}

func TestEncode_GuessesContentType(t *testing.T) {
	enc, err := upload.Encode("scan.PDF", "", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.HasPrefix(enc.DataURL, "data:application/pdf;base64,") {
		t.Errorf("DataURL prefix wrong: %q", enc.DataURL)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want upload.Kind
	}{
		{"image/png", upload.KindImage},
		{"uploads/receipts/r1.jpg", upload.KindImage},
		{"application/pdf", upload.KindPDF},
		{"uploads/receipts/r2.pdf", upload.KindPDF},
		{"application/zip", upload.KindOther},
		{"uploads/receipts/r3.docx", upload.KindOther},
	}
	for _, tc := range cases {
		if got := upload.Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
