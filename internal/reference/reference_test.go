package reference

import "testing"

func TestValidCitation(t *testing.T) {
	valid := []string{
		"John 3:16",
		"John 3:16-21",
		"Genesis 1",
		"1 Corinthians 13:4-7",
		"2 Kings 5",
		"Psalm 23:1",
	}
	for _, citation := range valid {
		if !ValidCitation(citation) {
			t.Errorf("expected %q to be a valid citation", citation)
		}
	}

	invalid := []string{
		"",
		"John",
		"3:16",
		"John three sixteen",
		"4 Maccabees 1:1",
	}
	for _, citation := range invalid {
		if ValidCitation(citation) {
			t.Errorf("expected %q to be rejected", citation)
		}
	}
}

func TestTranslationCode(t *testing.T) {
	code, err := TranslationCode("nrsvue")
	if err != nil {
		t.Fatalf("TranslationCode: %v", err)
	}
	if code != "NRSVUE" {
		t.Errorf("expected NRSVUE, got %q", code)
	}

	if _, err := TranslationCode("KJV21"); err == nil {
		t.Error("expected error for unsupported translation")
	}
}

func TestWordCount(t *testing.T) {
	ref := ScriptureReference{Text: "For God so loved   the world"}
	if got := ref.WordCount(); got != 6 {
		t.Errorf("expected 6 words, got %d", got)
	}
}
