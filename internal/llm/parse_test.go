package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

func TestParseJSONDirect(t *testing.T) {
	raw := `{"facts":[{"source_text":"I was heading north","extracted_fact":"Claimant traveling north","category":"location","confidence":0.9,"source":"claimant","is_implied":false}]}`

	var set model.FactSet
	if err := ParseJSON(raw, &set); err != nil {
		t.Fatalf("direct parse failed: %v", err)
	}
	if len(set.Facts) != 1 {
		t.Fatalf("got %d facts, want 1", len(set.Facts))
	}
	if set.Facts[0].Category != model.CategoryLocation {
		t.Errorf("category = %q", set.Facts[0].Category)
	}
}

func TestParseJSONEmbeddedInProse(t *testing.T) {
	raw := "Here is the extraction you asked for:\n\n" +
		`{"facts":[{"source_text":"light was red","extracted_fact":"Signal was red","category":"compliance","confidence":0.8,"source":"police","is_implied":false}]}` +
		"\n\nLet me know if you need anything else."

	var set model.FactSet
	if err := ParseJSON(raw, &set); err != nil {
		t.Fatalf("fallback parse failed: %v", err)
	}
	if len(set.Facts) != 1 || set.Facts[0].Source != model.SourcePolice {
		t.Fatalf("unexpected facts: %+v", set.Facts)
	}
}

func TestParseJSONFencedBlock(t *testing.T) {
	raw := "```json\n{\"facts\":[]}\n```"
	var set model.FactSet
	if err := ParseJSON(raw, &set); err != nil {
		t.Fatalf("fenced parse failed: %v", err)
	}
}

func TestParseJSONEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		var set model.FactSet
		err := ParseJSON(raw, &set)
		var empty *EmptyResponseError
		if !errors.As(err, &empty) {
			t.Errorf("input %q: got %v, want EmptyResponseError", raw, err)
		}
	}
}

func TestParseJSONUnparsable(t *testing.T) {
	raw := "I could not find any facts in the provided documents."
	var set model.FactSet
	err := ParseJSON(raw, &set)

	var unparsable *UnparsableResponseError
	if !errors.As(err, &unparsable) {
		t.Fatalf("got %v, want UnparsableResponseError", err)
	}
	if !strings.Contains(err.Error(), "could not find any facts") {
		t.Errorf("error should carry a preview of the response: %v", err)
	}
}

func TestParseJSONPreviewTruncated(t *testing.T) {
	raw := strings.Repeat("x", 500)
	var set model.FactSet
	err := ParseJSON(raw, &set)

	var unparsable *UnparsableResponseError
	if !errors.As(err, &unparsable) {
		t.Fatalf("got %v, want UnparsableResponseError", err)
	}
	if len(unparsable.Preview) != previewLen {
		t.Errorf("preview length = %d, want %d", len(unparsable.Preview), previewLen)
	}
}
