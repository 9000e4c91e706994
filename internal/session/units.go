package session

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxParamText bounds the text value of a parameter, in bytes.
const MaxParamText = 255

// Unit kind ids of the default catalog.
const (
	UnitZero = iota
	UnitFixedStar
	UnitPlanet
	UnitEdge
	UnitComet
	UnitSatellite
	UnitCylinder
)

// UnitKind is a named category of spawnable object with its live count.
type UnitKind struct {
	ID    int
	Name  string
	Count int
}

// DefaultUnitKinds returns a fresh copy of the built-in catalog.
func DefaultUnitKinds() []UnitKind {
	return []UnitKind{
		{ID: UnitZero, Name: "zero"},
		{ID: UnitFixedStar, Name: "fixed star"},
		{ID: UnitPlanet, Name: "planet"},
		{ID: UnitEdge, Name: "edge"},
		{ID: UnitComet, Name: "comet"},
		{ID: UnitSatellite, Name: "satellite"},
		{ID: UnitCylinder, Name: "cylinder"},
	}
}

type ParamType uint8

const (
	ParamString ParamType = iota
	ParamInt
	ParamFloat
)

func (t ParamType) String() string {
	switch t {
	case ParamString:
		return "string"
	case ParamInt:
		return "int"
	case ParamFloat:
		return "float"
	default:
		return fmt.Sprintf("ParamType(%d)", uint8(t))
	}
}

// UnitParam is one editable field of a unit. Only the value matching Type is
// meaningful; Unit is a display label such as "kg".
type UnitParam struct {
	Name  string
	Type  ParamType
	Str   string
	Int   int
	Float float64
	Unit  string
}

func StringParam(name, value string) UnitParam {
	p := UnitParam{Name: name, Type: ParamString}
	p.SetText(value)
	return p
}

func IntParam(name string, value int, unit string) UnitParam {
	return UnitParam{Name: name, Type: ParamInt, Int: value, Unit: unit}
}

func FloatParam(name string, value float64, unit string) UnitParam {
	return UnitParam{Name: name, Type: ParamFloat, Float: value, Unit: unit}
}

// Value returns the authoritative value for the parameter's type.
func (p UnitParam) Value() any {
	switch p.Type {
	case ParamInt:
		return p.Int
	case ParamFloat:
		return p.Float
	default:
		return p.Str
	}
}

// SetText stores s as the string value, cut to MaxParamText bytes without
// splitting a rune.
func (p *UnitParam) SetText(s string) {
	if len(s) > MaxParamText {
		cut := MaxParamText
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	p.Str = s
}

// Parse sets the value from user text according to the parameter's type.
func (p *UnitParam) Parse(text string) error {
	text = strings.TrimSpace(text)
	switch p.Type {
	case ParamInt:
		v, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an int", ErrParamValue, p.Name, text)
		}
		p.Int = v
	case ParamFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a float", ErrParamValue, p.Name, text)
		}
		p.Float = v
	default:
		p.SetText(text)
	}
	return nil
}

func (p UnitParam) String() string {
	var v string
	switch p.Type {
	case ParamInt:
		v = strconv.Itoa(p.Int)
	case ParamFloat:
		v = strconv.FormatFloat(p.Float, 'g', 6, 64)
	default:
		v = p.Str
	}
	if p.Unit != "" {
		return v + " " + p.Unit
	}
	return v
}

func cloneParams(src []UnitParam) []UnitParam {
	if src == nil {
		return nil
	}
	return append([]UnitParam(nil), src...)
}

// UnitCatalog tracks unit kinds, their live counts and one parameter schema
// per kind.
type UnitCatalog struct {
	kinds       []UnitKind
	schemas     map[int][]UnitParam
	built       bool
	current     []UnitParam
	currentKind int
}

func NewUnitCatalog(kinds []UnitKind) *UnitCatalog {
	return &UnitCatalog{
		kinds:       append([]UnitKind(nil), kinds...),
		schemas:     make(map[int][]UnitParam),
		currentKind: -1,
	}
}

func (c *UnitCatalog) index(id int) int {
	for i := range c.kinds {
		if c.kinds[i].ID == id {
			return i
		}
	}
	return -1
}

// Kinds returns a copy of the catalog with live counts.
func (c *UnitCatalog) Kinds() []UnitKind {
	return append([]UnitKind(nil), c.kinds...)
}

func (c *UnitCatalog) Kind(id int) (UnitKind, bool) {
	i := c.index(id)
	if i < 0 {
		return UnitKind{}, false
	}
	return c.kinds[i], true
}

func (c *UnitCatalog) Increment(id int) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	c.kinds[i].Count++
	return nil
}

func (c *UnitCatalog) Decrement(id int) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	if c.kinds[i].Count > 0 {
		c.kinds[i].Count--
	}
	return nil
}

// Build fills one schema per kind from schema. It runs once; later calls
// are ignored. A nil schema function leaves every schema empty.
func (c *UnitCatalog) Build(schema func(kind int) []UnitParam) {
	if c.built {
		return
	}
	c.built = true
	for _, k := range c.kinds {
		var params []UnitParam
		if schema != nil {
			params = cloneParams(schema(k.ID))
		}
		c.schemas[k.ID] = params
	}
}

func (c *UnitCatalog) Schema(id int) ([]UnitParam, bool) {
	params, ok := c.schemas[id]
	if !ok {
		return nil, false
	}
	return cloneParams(params), true
}

// Select makes the schema of kind id the current one. Unknown ids leave the
// current schema untouched.
func (c *UnitCatalog) Select(id int) bool {
	params, ok := c.schemas[id]
	if !ok {
		return false
	}
	c.current = cloneParams(params)
	c.currentKind = id
	return true
}

// Current returns a copy of the current schema and its kind id, or -1 when
// nothing has been selected yet.
func (c *UnitCatalog) Current() ([]UnitParam, int) {
	return cloneParams(c.current), c.currentKind
}
