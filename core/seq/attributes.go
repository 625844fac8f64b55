// core/seq/attributes.go
package seq

// Attributes is an insertion-ordered attribute map. Key order determines
// default CSV and header-metadata column order, so it must survive
// round-trips. Writing an existing key replaces its value but keeps the
// key's original position. Keys are case-sensitive.
type Attributes struct {
	keys []string
	vals map[string]Value
}

func (a *Attributes) Set(key string, v Value) {
	if a.vals == nil {
		a.vals = make(map[string]Value)
	}
	if _, ok := a.vals[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.vals[key] = v
}

// Get returns the value for key. A missing key yields the zero Value,
// which renders as "".
func (a *Attributes) Get(key string) (Value, bool) {
	v, ok := a.vals[key]
	return v, ok
}

func (a *Attributes) Has(key string) bool {
	_, ok := a.vals[key]
	return ok
}

func (a *Attributes) Len() int { return len(a.keys) }

// Keys returns attribute keys in insertion order. The slice is shared
// with the map; callers must not modify it.
func (a *Attributes) Keys() []string { return a.keys }

func (a *Attributes) clone() Attributes {
	c := Attributes{}
	if a.vals == nil {
		return c
	}
	c.keys = append([]string(nil), a.keys...)
	c.vals = make(map[string]Value, len(a.vals))
	for k, v := range a.vals {
		c.vals[k] = v
	}
	return c
}
