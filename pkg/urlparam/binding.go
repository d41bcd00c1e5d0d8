package urlparam

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Encoding specifies how a bound value is written to the query string.
type Encoding int

const (
	// EncodingFlat writes struct fields as separate params: ?cat=tech&sort=asc.
	// Non-struct values are written under the binding's key.
	EncodingFlat Encoding = iota

	// EncodingJSON writes base64url-encoded JSON: ?filter=eyJjYXQiOiJ0ZWNoIn0
	EncodingJSON

	// EncodingComma writes slices comma-separated: ?tags=go,web,api
	EncodingComma
)

// BindOption configures a Binding.
type BindOption func(*bindConfig)

type bindConfig struct {
	encoding Encoding
	debounce time.Duration
}

// WithEncoding sets the encoding for structs and slices.
func WithEncoding(e Encoding) BindOption {
	return func(c *bindConfig) {
		c.encoding = e
	}
}

// Debounce delays commits by d. Only the last value set within the window is
// committed. Use this for search inputs.
func Debounce(d time.Duration) BindOption {
	return func(c *bindConfig) {
		c.debounce = d
	}
}

// Binding is a typed value stored in the query string.
type Binding[T any] struct {
	syncer   *Synchronizer
	key      string
	defaults T
	config   bindConfig
	commit   Committer

	timerMu sync.Mutex
	timer   *time.Timer
	pending []Pair
}

// Bind binds a value of type T to key. With EncodingFlat and a struct type
// the key may be empty; field names come from `url` tags or the lower-cased
// field name, and "-" skips a field.
//
//	type Filters struct {
//	    Category string `url:"cat"`
//	    SortBy   string `url:"sort"`
//	}
//	filters := urlparam.Bind(sync, "", Filters{})
//	query := urlparam.Bind(sync, "q", "", urlparam.Debounce(300*time.Millisecond))
func Bind[T any](s *Synchronizer, key string, defaultValue T, opts ...BindOption) *Binding[T] {
	b := &Binding[T]{syncer: s, key: key, defaults: defaultValue}
	for _, opt := range opts {
		opt(&b.config)
	}
	return b
}

// WithCommitter returns b committing through c instead of the address bar.
func (b *Binding[T]) WithCommitter(c Committer) *Binding[T] {
	b.commit = c
	return b
}

// Key returns the bound key.
func (b *Binding[T]) Key() string {
	return b.key
}

// Get decodes the value from the current address. An absent or undecodable
// value yields the default.
func (b *Binding[T]) Get() T {
	params := b.syncer.Current().Map()
	v, ok, err := b.deserialize(params)
	if err != nil {
		b.syncer.logger.Debug("query value not decodable", "key", b.key, "error", err)
		return b.defaults
	}
	if !ok {
		return b.defaults
	}
	return v
}

// Set writes value to the query string. The default value removes the
// parameter(s). Without debounce the commit error is returned; debounced
// commits log their errors.
func (b *Binding[T]) Set(value T) error {
	pairs := b.serialize(value)
	if b.config.debounce <= 0 {
		return b.syncer.SetMany(pairs, b.commit)
	}

	b.timerMu.Lock()
	defer b.timerMu.Unlock()
	b.pending = pairs
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.config.debounce, b.fire)
	return nil
}

// Reset restores the default value.
func (b *Binding[T]) Reset() error {
	return b.Set(b.defaults)
}

// Flush commits a pending debounced value immediately. It returns nil when
// nothing is pending.
func (b *Binding[T]) Flush() error {
	pairs := b.takePending()
	if pairs == nil {
		return nil
	}
	return b.syncer.SetMany(pairs, b.commit)
}

func (b *Binding[T]) fire() {
	pairs := b.takePending()
	if pairs == nil {
		return
	}
	if err := b.syncer.SetMany(pairs, b.commit); err != nil {
		b.syncer.logger.Error("debounced query commit failed", "key", b.key, "error", err)
	}
}

func (b *Binding[T]) takePending() []Pair {
	b.timerMu.Lock()
	defer b.timerMu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	pairs := b.pending
	b.pending = nil
	return pairs
}

func (b *Binding[T]) serialize(value T) []Pair {
	isDefault := reflect.DeepEqual(value, b.defaults)

	switch b.config.encoding {
	case EncodingJSON:
		if isDefault {
			return []Pair{{Name: b.key}}
		}
		data, err := json.Marshal(value)
		if err != nil {
			return []Pair{{Name: b.key}}
		}
		return []Pair{{Name: b.key, Value: base64.RawURLEncoding.EncodeToString(data)}}

	case EncodingComma:
		v := reflect.ValueOf(value)
		if isDefault || !v.IsValid() {
			return []Pair{{Name: b.key}}
		}
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return []Pair{{Name: b.key, Value: formatValue(v)}}
		}
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return []Pair{{Name: b.key, Value: strings.Join(parts, ",")}}

	default:
		return b.serializeFlat(value, isDefault)
	}
}

func (b *Binding[T]) serializeFlat(value T, isDefault bool) []Pair {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		if isDefault || !v.IsValid() {
			return []Pair{{Name: b.key}}
		}
		return []Pair{{Name: b.key, Value: formatValue(v)}}
	}

	t := v.Type()
	pairs := make([]Pair, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key := fieldKey(field)
		if key == "-" {
			continue
		}

		fv := v.Field(i)
		if isDefault || fv.IsZero() {
			pairs = append(pairs, Pair{Name: key})
			continue
		}
		pairs = append(pairs, Pair{Name: key, Value: formatValue(fv)})
	}
	return pairs
}

func (b *Binding[T]) deserialize(params map[string]string) (T, bool, error) {
	switch b.config.encoding {
	case EncodingJSON:
		return b.deserializeJSON(params)
	case EncodingComma:
		return b.deserializeComma(params)
	default:
		return b.deserializeFlat(params)
	}
}

func (b *Binding[T]) deserializeFlat(params map[string]string) (T, bool, error) {
	result := b.defaults
	v := reflect.ValueOf(&result).Elem()

	if v.Kind() != reflect.Struct {
		val, ok := params[b.key]
		if !ok || val == "" {
			return result, false, nil
		}
		if err := setFieldValue(v, val); err != nil {
			return result, false, err
		}
		return result, true, nil
	}

	found := false
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}
		key := fieldKey(field)
		if key == "-" {
			continue
		}

		if val, ok := params[key]; ok && val != "" {
			if err := setFieldValue(fieldValue, val); err != nil {
				return result, false, fmt.Errorf("field %s: %w", field.Name, err)
			}
			found = true
		}
	}
	return result, found, nil
}

func (b *Binding[T]) deserializeJSON(params map[string]string) (T, bool, error) {
	var result T

	val, ok := params[b.key]
	if !ok || val == "" {
		return result, false, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(val)
	if err != nil {
		return result, false, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false, err
	}
	return result, true, nil
}

func (b *Binding[T]) deserializeComma(params map[string]string) (T, bool, error) {
	var result T

	val, ok := params[b.key]
	if !ok || val == "" {
		return result, false, nil
	}

	v := reflect.ValueOf(&result).Elem()
	if v.Kind() != reflect.Slice {
		return result, false, fmt.Errorf("comma encoding requires a slice type, got %v", v.Kind())
	}

	parts := strings.Split(val, ",")
	slice := reflect.MakeSlice(v.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := setFieldValue(slice.Index(i), part); err != nil {
			return result, false, err
		}
	}
	v.Set(slice)
	return result, true, nil
}

func fieldKey(field reflect.StructField) string {
	if key := field.Tag.Get("url"); key != "" {
		return key
	}
	return strings.ToLower(field.Name)
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func setFieldValue(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		v.SetUint(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %v", v.Kind())
	}
	return nil
}
