package writer

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/opt-report/internal/testutil"
)

type testData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestJSONWriter_Write(t *testing.T) {
	data := testData{Name: "<a.c>", Value: 42}

	t.Run("compact output", func(t *testing.T) {
		w := NewJSONWriter[testData]()
		var buf bytes.Buffer
		if err := w.Write(data, &buf); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		expected := `{"name":"<a.c>","value":42}` + "\n"
		if buf.String() != expected {
			t.Errorf("got %q, want %q", buf.String(), expected)
		}
	})

	t.Run("pretty output", func(t *testing.T) {
		w := NewPrettyJSONWriter[testData]()
		var buf bytes.Buffer
		if err := w.Write(data, &buf); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		testutil.AssertJSONEqual(t, `{"name":"<a.c>","value":42}`, buf.String())
		if !bytes.Contains(buf.Bytes(), []byte("\n  \"name\"")) {
			t.Errorf("output is not indented: %q", buf.String())
		}
	})
}

func TestJSONWriter_Document(t *testing.T) {
	doc, err := NewJSONWriter[testData]().Document("summary.json", testData{Name: "x"})
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if doc.Name != "summary.json" {
		t.Errorf("got name %q", doc.Name)
	}
	if string(doc.Content) != `{"name":"x","value":0}`+"\n" {
		t.Errorf("got content %q", doc.Content)
	}
}

func TestDocumentSet(t *testing.T) {
	s := NewDocumentSet()
	if err := s.Add(Document{Name: "style.css"}, Document{Name: "index.html"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Add(Document{Name: "index.html"}); err == nil {
		t.Error("expected duplicate error")
	}
	if err := s.Add(Document{}); err == nil {
		t.Error("expected unnamed document error")
	}

	if s.Len() != 2 {
		t.Errorf("got len %d, want 2", s.Len())
	}
	if _, ok := s.Get("index.html"); !ok {
		t.Error("index.html not found")
	}
	if _, ok := s.Get("missing.html"); ok {
		t.Error("unexpected document")
	}

	order := []string{}
	for _, d := range s.Documents() {
		order = append(order, d.Name)
	}
	if !reflect.DeepEqual(order, []string{"style.css", "index.html"}) {
		t.Errorf("got order %v", order)
	}
	if !reflect.DeepEqual(s.Names(), []string{"index.html", "style.css"}) {
		t.Errorf("got names %v", s.Names())
	}
}
