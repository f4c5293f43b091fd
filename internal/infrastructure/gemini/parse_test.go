package gemini

import (
	"strings"
	"testing"

	"newsrobot/internal/domain"
)

func TestParseTopicLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{"plain answer", "TOPIC: AI/ML", "AI/ML", false},
		{"answer with chatter", "Sure, here is the answer.\nTOPIC: Security\nHope that helps!", "Security", false},
		{"none", "TOPIC: none", "none", false},
		{"indented", "   TOPIC: Cloud  ", "Cloud", false},
		{"missing label", "The article is about AI.", "", true},
		{"empty label", "TOPIC:", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseTopicLine(tc.response)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTopicLine error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLookupTopicIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	catalog := domain.Catalog{
		"AI/ML": {Name: "AI/ML", Priority: 10},
	}

	if _, ok := lookupTopic(catalog, "ai/ml"); !ok {
		t.Fatal("case-insensitive lookup failed")
	}
	if _, ok := lookupTopic(catalog, "Quantum"); ok {
		t.Fatal("unknown topic must not resolve")
	}
}

func TestParseWriterResponse(t *testing.T) {
	t.Parallel()

	response := `EXCERPT: A busy week in
infrastructure and AI.
BODY:
<h2>From NewsRobot:</h2>
<p>Intro.</p>
<ol><li><h3>One</h3></li></ol>`

	excerpt, body, err := parseWriterResponse(response)
	if err != nil {
		t.Fatalf("parseWriterResponse error: %v", err)
	}
	if excerpt != "A busy week in infrastructure and AI." {
		t.Fatalf("unexpected excerpt: %q", excerpt)
	}
	if !strings.HasPrefix(body, "<h2>From NewsRobot:</h2>") {
		t.Fatalf("unexpected body start: %q", body)
	}
	if !strings.Contains(body, "<ol><li><h3>One</h3></li></ol>") {
		t.Fatalf("body lost content: %q", body)
	}
}

func TestParseWriterResponseMissingSections(t *testing.T) {
	t.Parallel()

	for _, response := range []string{
		"BODY:\n<p>no excerpt</p>",
		"EXCERPT: no body here",
		"free text with no labels",
	} {
		if _, _, err := parseWriterResponse(response); err == nil {
			t.Errorf("expected error for %q", response)
		}
	}
}
