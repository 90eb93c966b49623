package scene

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/geom"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc := New()
	label := geom.Pt(1, 1)
	elems := []element.Element{
		&element.Point{ID: "A", X: 1, Y: 2, Label: "A", Filled: true},
		&element.Point{ID: "P", Anchor: element.LineParam{LineID: "l", T: 0.25}},
		&element.Line{ID: "l", Kind: element.Ray, Start: element.PointRef{PointID: "A"}, End: element.Coord{X: 4, Y: 0},
			Style: element.Style{Color: "#f00", Dashed: true}},
		&element.Curve{ID: "c", Start: element.Coord{}, End: element.Coord{X: 2}, Curvature: 0.5},
		&element.Function{ID: "f", Expression: "x^2", ScaleY: 2, OffsetX: 1, Domain: &element.Domain{Min: -1, Max: 3}},
		&element.Point{ID: "Q", Anchor: element.FunctionParam{FunctionID: "f", X: 1.5}},
		&element.Point{ID: "R", Anchor: element.CurveParam{CurveID: "c", T: 0.75}},
		&element.Area{
			ID:          "a",
			Mode:        element.ModeUnderFunction,
			Points:      []element.Anchor{element.FunctionParam{FunctionID: "f", X: 0}, element.Coord{X: 1}, element.Coord{}},
			FunctionID:  "f",
			Domain:      &element.Domain{Min: 0, Max: 1},
			BoundaryIDs: []string{"f", "axis:x"},
			IgnoredIDs:  []string{"axis:y"},
			LabelPos:    &label,
			Fill:        element.Fill{Color: "blue", Opacity: 0.3},
		},
		&element.Text{ID: "t", X: -1, Y: 3, Text: `\pi`, IsMath: true},
	}
	for _, e := range elems {
		if _, err := doc.Elements.Add(e); err != nil {
			t.Fatalf("Add(%s) error = %v", e.ElementID(), err)
		}
	}
	return doc
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument(t)

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Repaired {
		t.Error("Repaired = true for valid axes")
	}
	if !reflect.DeepEqual(got.Axes, doc.Axes) {
		t.Errorf("Axes = %+v, want %+v", got.Axes, doc.Axes)
	}
	if got.Viewport != doc.Viewport {
		t.Errorf("Viewport = %+v, want %+v", got.Viewport, doc.Viewport)
	}
	if !reflect.DeepEqual(got.Elements.IDs(), doc.Elements.IDs()) {
		t.Fatalf("IDs = %v, want %v", got.Elements.IDs(), doc.Elements.IDs())
	}
	for _, want := range doc.Elements.All() {
		e, _ := got.Elements.Get(want.ElementID())
		if !reflect.DeepEqual(e, want) {
			t.Errorf("element %s = %#v, want %#v", want.ElementID(), e, want)
		}
	}
}

func TestReadDefaults(t *testing.T) {
	input := `{
		"elements": [
			{"type": "function", "id": "f", "expression": "sin(x)"},
			{"type": "line", "id": "l", "start": {"type": "coord"}, "end": {"type": "coord", "x": 1}},
			{"type": "area", "id": "a"}
		]
	}`
	doc, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := doc.Elements.Function("f").ScaleY; got != 1 {
		t.Errorf("ScaleY = %v, want 1", got)
	}
	if got := doc.Elements.Line("l").Kind; got != element.Segment {
		t.Errorf("Kind = %v, want segment", got)
	}
	if got := doc.Elements.Area("a").Mode; got != element.ModePolygon {
		t.Errorf("Mode = %v, want polygon", got)
	}
	if doc.Axes.XMin != -5 || doc.Viewport.Width != 800 {
		t.Errorf("defaults not applied: %+v %+v", doc.Axes, doc.Viewport)
	}
}

func TestReadRepairsAxes(t *testing.T) {
	input := `{"axes": {"xMin": 3, "xMax": 3, "yMin": -1, "yMax": 1}, "elements": []}`
	doc, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !doc.Repaired {
		t.Error("Repaired = false, want true")
	}
	if doc.Axes.XMin != -5 || doc.Axes.XMax != 5 {
		t.Errorf("x range = [%v, %v], want [-5, 5]", doc.Axes.XMin, doc.Axes.XMax)
	}
	if doc.Axes.YMin != -1 || doc.Axes.YMax != 1 {
		t.Errorf("y range = [%v, %v], want [-1, 1]", doc.Axes.YMin, doc.Axes.YMax)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"elements": [`, errors.ErrCodeInvalidInput},
		{"unknown element", `{"elements": [{"type": "hexagon", "id": "h"}]}`, errors.ErrCodeInvalidElement},
		{"unknown anchor", `{"elements": [{"type": "point", "id": "p", "anchor": {"type": "polar"}}]}`, errors.ErrCodeInvalidAnchor},
		{"missing end", `{"elements": [{"type": "curve", "id": "c", "start": {"type": "coord"}}]}`, errors.ErrCodeInvalidAnchor},
		{"duplicate", `{"elements": [{"type": "text", "id": "t"}, {"type": "text", "id": "t"}]}`, errors.ErrCodeDuplicateID},
		{"bad line kind", `{"elements": [{"type": "line", "id": "l", "kind": "arc", "start": {"type": "coord"}, "end": {"type": "coord"}}]}`, errors.ErrCodeInvalidElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	doc := sampleDocument(t)

	if err := WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.Elements.Len() != doc.Elements.Len() {
		t.Errorf("Len = %d, want %d", got.Elements.Len(), doc.Elements.Len())
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteOmitsDefaults(t *testing.T) {
	doc := New()
	doc.Elements.Add(element.NewFunction("f", "x"))

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, field := range []string{"scaleY", "style", "domain"} {
		if strings.Contains(out, field) {
			t.Errorf("output contains %q:\n%s", field, out)
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	data, err := Marshal(&Document{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"elements": []`) {
		t.Errorf("expected empty elements array, got %s", data)
	}
}
