package element

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/graphplane/pkg/errors"
)

// Collection is an insertion-ordered set of elements keyed by id.
//
// The zero value is not usable - use [NewCollection]. Collection is not safe
// for concurrent use without external synchronization.
type Collection struct {
	order []string
	byID  map[string]Element
}

// NewCollection creates a collection holding elems in order.
// It fails on the first element that [Collection.Add] rejects.
func NewCollection(elems ...Element) (*Collection, error) {
	c := &Collection{byID: make(map[string]Element, len(elems))}
	for _, e := range elems {
		if _, err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add validates e and appends it. An element with an empty id is assigned a
// fresh UUID. Add returns the stored id, or a DUPLICATE_ID error when the id
// is taken.
func (c *Collection) Add(e Element) (string, error) {
	if e == nil {
		return "", errors.New(errors.ErrCodeInvalidElement, "element is nil")
	}
	if e.ElementID() == "" {
		Visit[struct{}](e, idSetter(uuid.NewString()))
	}
	if err := Validate(e); err != nil {
		return "", err
	}
	id := e.ElementID()
	if _, ok := c.byID[id]; ok {
		return "", errors.New(errors.ErrCodeDuplicateID, "duplicate element id %q", id)
	}
	c.byID[id] = e
	c.order = append(c.order, id)
	return id, nil
}

// Replace swaps the stored element having e's id for e. Kinds must match.
func (c *Collection) Replace(e Element) error {
	if e == nil {
		return errors.New(errors.ErrCodeInvalidElement, "element is nil")
	}
	old, ok := c.byID[e.ElementID()]
	if !ok {
		return errors.New(errors.ErrCodeElementNotFound, "element %q not found", e.ElementID())
	}
	if old.ElementKind() != e.ElementKind() {
		return errors.New(errors.ErrCodeInvalidElement, "cannot replace %s %q with a %s",
			old.ElementKind(), e.ElementID(), e.ElementKind())
	}
	if err := Validate(e); err != nil {
		return err
	}
	c.byID[e.ElementID()] = e
	return nil
}

// Remove deletes the element with the given id without touching anything
// that references it. Dangling references resolve to the origin; use
// [Resolver.Delete] to freeze them instead.
func (c *Collection) Remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
	return true
}

// Get returns the element with the given id.
func (c *Collection) Get(id string) (Element, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Has reports whether an element with the given id exists.
func (c *Collection) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of elements.
func (c *Collection) Len() int { return len(c.order) }

// IDs returns element ids in insertion order.
func (c *Collection) IDs() []string { return slices.Clone(c.order) }

// All returns the elements in insertion order.
func (c *Collection) All() []Element {
	out := make([]Element, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func typed[T Element](c *Collection, id string) T {
	var zero T
	if c == nil {
		return zero
	}
	e, ok := c.byID[id].(T)
	if !ok {
		return zero
	}
	return e
}

func listOf[T Element](c *Collection) []T {
	var out []T
	for _, id := range c.order {
		if e, ok := c.byID[id].(T); ok {
			out = append(out, e)
		}
	}
	return out
}

// Point returns the point with the given id, or nil.
func (c *Collection) Point(id string) *Point { return typed[*Point](c, id) }

// Line returns the line with the given id, or nil.
func (c *Collection) Line(id string) *Line { return typed[*Line](c, id) }

// Curve returns the curve with the given id, or nil.
func (c *Collection) Curve(id string) *Curve { return typed[*Curve](c, id) }

// Function returns the function with the given id, or nil.
func (c *Collection) Function(id string) *Function { return typed[*Function](c, id) }

// Area returns the area with the given id, or nil.
func (c *Collection) Area(id string) *Area { return typed[*Area](c, id) }

// Text returns the text with the given id, or nil.
func (c *Collection) Text(id string) *Text { return typed[*Text](c, id) }

// Points returns all points in insertion order.
func (c *Collection) Points() []*Point { return listOf[*Point](c) }

// Lines returns all lines in insertion order.
func (c *Collection) Lines() []*Line { return listOf[*Line](c) }

// Curves returns all curves in insertion order.
func (c *Collection) Curves() []*Curve { return listOf[*Curve](c) }

// Functions returns all functions in insertion order.
func (c *Collection) Functions() []*Function { return listOf[*Function](c) }

// Areas returns all areas in insertion order.
func (c *Collection) Areas() []*Area { return listOf[*Area](c) }

// Texts returns all texts in insertion order.
func (c *Collection) Texts() []*Text { return listOf[*Text](c) }

// =============================================================================
// Validation
// =============================================================================

// Validate checks an element's id, enumerations, anchors and coordinates.
// Expressions are checked for shape only; compilation happens on use.
func Validate(e Element) error {
	if err := errors.ValidateID(e.ElementID()); err != nil {
		return err
	}
	return Visit[error](e, validator{})
}

type validator struct{}

func (validator) Point(p *Point) error {
	if err := errors.ValidateFinite("point position", p.X, p.Y); err != nil {
		return err
	}
	return validateAnchor("point anchor", p.Anchor, true)
}

func (validator) Line(l *Line) error {
	if !l.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidElement, "line %q: unknown kind %q", l.ID, l.Kind)
	}
	if err := validateAnchor("line start", l.Start, false); err != nil {
		return err
	}
	return validateAnchor("line end", l.End, false)
}

func (validator) Curve(c *Curve) error {
	if err := errors.ValidateFinite("curvature", c.Curvature); err != nil {
		return err
	}
	if err := validateAnchor("curve start", c.Start, false); err != nil {
		return err
	}
	return validateAnchor("curve end", c.End, false)
}

func (validator) Function(f *Function) error {
	if err := errors.ValidateExpression(f.Expression); err != nil {
		return err
	}
	if err := errors.ValidateFinite("function transform", f.OffsetX, f.OffsetY, f.ScaleY); err != nil {
		return err
	}
	if f.Domain != nil && !f.Domain.Valid() {
		return errors.New(errors.ErrCodeInvalidElement, "function %q: empty domain [%g, %g]",
			f.ID, f.Domain.Min, f.Domain.Max)
	}
	return nil
}

func (validator) Area(a *Area) error {
	if !a.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidElement, "area %q: unknown mode %q", a.ID, a.Mode)
	}
	for _, p := range a.Points {
		if err := validateAnchor("area point", p, false); err != nil {
			return err
		}
	}
	if a.LabelPos != nil {
		if err := errors.ValidateFinite("area label", a.LabelPos.X, a.LabelPos.Y); err != nil {
			return err
		}
	}
	return nil
}

func (validator) Text(t *Text) error {
	return errors.ValidateFinite("text position", t.X, t.Y)
}

func validateAnchor(field string, a Anchor, optional bool) error {
	if a == nil {
		if optional {
			return nil
		}
		return errors.New(errors.ErrCodeInvalidAnchor, "%s is missing", field)
	}
	return VisitAnchor[error](a, anchorValidator(field))
}

type anchorValidator string

func (f anchorValidator) Coord(c Coord) error {
	return errors.ValidateFinite(string(f), c.X, c.Y)
}

func (f anchorValidator) PointRef(a PointRef) error {
	return f.ref(a.PointID)
}

func (f anchorValidator) LineParam(a LineParam) error {
	if err := errors.ValidateFinite(string(f), a.T); err != nil {
		return err
	}
	return f.ref(a.LineID)
}

func (f anchorValidator) CurveParam(a CurveParam) error {
	if err := errors.ValidateFinite(string(f), a.T); err != nil {
		return err
	}
	return f.ref(a.CurveID)
}

func (f anchorValidator) FunctionParam(a FunctionParam) error {
	if err := errors.ValidateFinite(string(f), a.X); err != nil {
		return err
	}
	return f.ref(a.FunctionID)
}

func (f anchorValidator) ref(id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidAnchor, "%s references an empty id", string(f))
	}
	return nil
}

// idSetter assigns an id to an element of any variant.
type idSetter string

func (id idSetter) Point(p *Point) struct{}       { p.ID = string(id); return struct{}{} }
func (id idSetter) Line(l *Line) struct{}         { l.ID = string(id); return struct{}{} }
func (id idSetter) Curve(c *Curve) struct{}       { c.ID = string(id); return struct{}{} }
func (id idSetter) Function(f *Function) struct{} { f.ID = string(id); return struct{}{} }
func (id idSetter) Area(a *Area) struct{}         { a.ID = string(id); return struct{}{} }
func (id idSetter) Text(t *Text) struct{}         { t.ID = string(id); return struct{}{} }
