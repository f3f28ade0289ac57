package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type testResult struct {
	Resource string `json:"resource"`
	Admitted int    `json:"admitted"`
	Rejected int    `json:"rejected"`
}

func (r testResult) String() string {
	return "resource " + r.Resource
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"", FormatText, false},
		{"csv", FormatText, true},
		{"yaml", FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := &TextFormatter{}

	out, err := f.Format(testResult{Resource: "api-key-1"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if string(out) != "resource api-key-1\n" {
		t.Errorf("Format() = %q, want %q", string(out), "resource api-key-1\n")
	}
}

func TestTextFormatter_FormatTo(t *testing.T) {
	f := &TextFormatter{}
	buf := &bytes.Buffer{}

	if err := f.FormatTo(buf, testResult{Resource: "api-key-1"}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	if buf.String() != "resource api-key-1\n" {
		t.Errorf("FormatTo() wrote %q, want %q", buf.String(), "resource api-key-1\n")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := &JSONFormatter{}

	out, err := f.Format(testResult{Resource: "api-key-1", Admitted: 10, Rejected: 2})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var got testResult
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Resource != "api-key-1" || got.Admitted != 10 || got.Rejected != 2 {
		t.Errorf("round-trip = %+v, want original values", got)
	}
}

func TestJSONFormatter_Indent(t *testing.T) {
	f := &JSONFormatter{Indent: true}

	out, err := f.Format(testResult{Resource: "api-key-1"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(string(out), "\n  ") {
		t.Errorf("indented output missing indentation: %q", string(out))
	}
}

func TestJSONFormatter_FormatTo(t *testing.T) {
	f := &JSONFormatter{}
	buf := &bytes.Buffer{}

	if err := f.FormatTo(buf, testResult{Resource: "api-key-1"}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got testResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Resource != "api-key-1" {
		t.Errorf("Resource = %q, want %q", got.Resource, "api-key-1")
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(FormatJSON) did not return a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(FormatText) did not return a TextFormatter")
	}
	if _, ok := NewFormatter(OutputFormat("bogus")).(*TextFormatter); !ok {
		t.Error("NewFormatter with unknown format did not fall back to text")
	}
}
