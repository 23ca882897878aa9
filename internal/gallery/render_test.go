package gallery

import (
	"bytes"
	"strings"
	"testing"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

func TestRenderTableBody(t *testing.T) {
	rows := []Row{
		{ID: "abc123", Category: "nature", Summary: "a tree", AssetURL: "https://cdn.example.com/abc123", Caption: "a tree"},
		{ID: "def456", Category: "food", Summary: "a pie", AssetURL: "https://cdn.example.com/def456", Caption: "a pie"},
	}

	var buf bytes.Buffer
	if err := RenderTableBody(&buf, rows); err != nil {
		t.Fatalf("RenderTableBody: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "<tr>"); got != 2 {
		t.Fatalf("expected 2 rows, got %d in %s", got, out)
	}
	for _, want := range []string{
		`<td>abc123</td><td>nature</td><td>a tree</td>`,
		`<a href="https://cdn.example.com/abc123" data-toggle="lightbox" data-caption="a tree">`,
		`<img width="100" src="https://cdn.example.com/abc123" alt="a tree">`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "abc123") > strings.Index(out, "def456") {
		t.Fatal("rows rendered out of order")
	}
}

func TestRenderTableBody_EscapesValues(t *testing.T) {
	rows := []Row{{
		ID:       "x",
		Category: "<script>alert(1)</script>",
		Summary:  `say "hi"`,
		AssetURL: "https://cdn.example.com/x",
		Caption:  `say "hi"`,
	}}

	var buf bytes.Buffer
	if err := RenderTableBody(&buf, rows); err != nil {
		t.Fatalf("RenderTableBody: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Fatalf("category was not escaped: %s", out)
	}
	if strings.Contains(out, `data-caption="say "hi""`) {
		t.Fatalf("caption was not escaped: %s", out)
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, "Album", []Row{{ID: "abc123", AssetURL: "https://cdn.example.com/abc123"}}); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`<title>Album</title>`, `<table id="tableImages">`, `<tbody>`, `<td>abc123</td>`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page:\n%s", want, out)
		}
	}
}

func TestRenderTableBody_PercentEncodesAssetURL(t *testing.T) {
	rows := BuildRows("https://cdn.example.com/", []imagemodels.Record{{ID: "my photo(1).jpg", Category: "misc", Summary: "odd name"}})
	if rows[0].AssetURL != "https://cdn.example.com/my photo(1).jpg" {
		t.Fatalf("row keeps the raw address, got %q", rows[0].AssetURL)
	}

	var buf bytes.Buffer
	if err := RenderTableBody(&buf, rows); err != nil {
		t.Fatalf("RenderTableBody: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`href="https://cdn.example.com/my%20photo%281%29.jpg"`,
		`src="https://cdn.example.com/my%20photo%281%29.jpg"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
