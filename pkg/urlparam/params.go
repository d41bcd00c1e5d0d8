package urlparam

import "strings"

// Pair is one name/value update. An empty Value removes the parameter.
type Pair struct {
	Name  string
	Value string
}

// Params is an ordered set of query parameters with unique names.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// ParseQuery parses a raw query string the way browsers parse
// application/x-www-form-urlencoded data: '+' is a space, bad percent escapes
// are kept literally and empty segments are skipped. A leading '?' is ignored.
// For repeated names the first position and first value win.
func ParseQuery(raw string) *Params {
	p := NewParams()
	raw = strings.TrimPrefix(raw, "?")

	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		name, value, _ := strings.Cut(segment, "=")
		name = formDecode(name)
		if _, exists := p.values[name]; exists {
			continue
		}
		p.keys = append(p.keys, name)
		p.values[name] = formDecode(value)
	}
	return p
}

// Get returns the value of name, or "" if absent.
func (p *Params) Get(name string) string {
	return p.values[name]
}

// Lookup returns the value of name and whether it is present.
func (p *Params) Lookup(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Has reports whether name is present.
func (p *Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return len(p.keys)
}

// Keys returns the parameter names in order.
func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Pairs returns the parameters in order.
func (p *Params) Pairs() []Pair {
	pairs := make([]Pair, len(p.keys))
	for i, k := range p.keys {
		pairs[i] = Pair{Name: k, Value: p.values[k]}
	}
	return pairs
}

// Map returns the parameters as a map.
func (p *Params) Map() map[string]string {
	m := make(map[string]string, len(p.values))
	for k, v := range p.values {
		m[k] = v
	}
	return m
}

// Set applies one update: an empty value deletes name, an existing name is
// overwritten in place and a new name is appended.
func (p *Params) Set(name, value string) {
	if value == "" {
		p.Delete(name)
		return
	}
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

// Apply applies pairs in order.
func (p *Params) Apply(pairs []Pair) {
	for _, pair := range pairs {
		p.Set(pair.Name, pair.Value)
	}
}

// Delete removes name. Deleting an absent name is a no-op.
func (p *Params) Delete(name string) {
	if _, exists := p.values[name]; !exists {
		return
	}
	delete(p.values, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Encode serializes the set as name=value pairs joined by '&'.
// Parameters with an empty value are left out.
func (p *Params) Encode() string {
	var b strings.Builder
	for _, k := range p.keys {
		v := p.values[k]
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(formEncode(k))
		b.WriteByte('=')
		b.WriteString(formEncode(v))
	}
	return b.String()
}

// String returns Encode().
func (p *Params) String() string {
	return p.Encode()
}
