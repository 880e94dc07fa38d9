package hydra

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultPageSize is the itemsPerPage sent when ListOptions.PageSize is zero.
const DefaultPageSize = 10

// timeLayout renders filter times as UTC ISO-8601 with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Param is a single query string pair.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query pairs. Keys may repeat.
type Query []Param

// Add appends a pair.
func (q *Query) Add(key, value string) {
	*q = append(*q, Param{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Values returns every value stored under key, in order.
func (q Query) Values(key string) []string {
	var out []string
	for _, p := range q {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// Encode renders the pairs in order as application/x-www-form-urlencoded,
// byte for byte what a WHATWG URLSearchParams produces: brackets are
// percent-encoded and spaces become "+".
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		formEscape(&b, p.Key)
		b.WriteByte('=')
		formEscape(&b, p.Value)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (q Query) String() string { return q.Encode() }

const upperhex = "0123456789ABCDEF"

// formEscape writes s using the URLSearchParams byte set: ASCII alphanumerics
// and "*-._" pass through, space becomes "+", everything else is %XX.
// Invalid UTF-8 is replaced with U+FFFD first.
func formEscape(b *strings.Builder, s string) {
	s = strings.ToValidUTF8(s, "\uFFFD")
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '*', c == '-', c == '.', c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
}

// Sort orders a collection by Field, ascending unless Desc is set.
type Sort struct {
	Field string
	Desc  bool
}

// Filter narrows a collection. Value may be a string, bool, number,
// time.Time, a slice of scalars, a map with scalar values, or Fields.
type Filter struct {
	Field string
	Value any
}

// Field is one entry of an ordered Fields mapping.
type Field struct {
	Key   string
	Value any
}

// Fields is a mapping filter value whose entries are encoded in the order
// given, e.g. Fields{{"after", t0}, {"before", t1}} for a date range.
type Fields []Field

// ListOptions describe pagination, ordering, filtering and sparse field
// selection of a GET request. The zero value requests the first page of
// DefaultPageSize items.
type ListOptions struct {
	// NoPagination disables pagination; PageIndex and PageSize are then ignored.
	NoPagination bool
	// PageIndex is zero-based.
	PageIndex int
	// PageSize defaults to DefaultPageSize when zero.
	PageSize int
	SortBy   []Sort
	Filters  []Filter
	// Properties are dotted paths, e.g. "author.name".
	Properties []string
}

// EncodeQuery translates opts into query pairs in a fixed order:
// pagination, sorting, filters, then properties. It never fails and does
// not deduplicate.
func EncodeQuery(opts ListOptions) Query {
	var q Query

	if !opts.NoPagination {
		size := opts.PageSize
		if size == 0 {
			size = DefaultPageSize
		}
		q.Add("pagination", "true")
		q.Add("page", strconv.Itoa(opts.PageIndex+1))
		q.Add("itemsPerPage", strconv.Itoa(size))
	}

	for _, s := range opts.SortBy {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		q.Add("order["+s.Field+"]", dir)
	}

	for _, f := range opts.Filters {
		encodeFilter(&q, f.Field, f.Value)
	}

	for _, p := range opts.Properties {
		segs := strings.Split(p, ".")
		if len(segs) == 1 {
			q.Add("properties[]", p)
			continue
		}
		var key strings.Builder
		key.WriteString("properties")
		for _, s := range segs[:len(segs)-1] {
			key.WriteString("[" + s + "]")
		}
		key.WriteString("[]")
		q.Add(key.String(), segs[len(segs)-1])
	}

	return q
}

func encodeFilter(q *Query, field string, value any) {
	if isNil(value) {
		return
	}
	switch v := value.(type) {
	case time.Time:
		q.Add(field, formatTime(v))
		return
	case *time.Time:
		q.Add(field, formatTime(*v))
		return
	case Fields:
		for _, e := range v {
			if !isNil(e.Value) {
				q.Add(field+"["+e.Key+"]", stringify(e.Value))
			}
		}
		return
	case string, []byte, fmt.Stringer:
		q.Add(field, stringify(v))
		return
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if !isNil(elem) {
				q.Add(field+"[]", stringify(elem))
			}
		}
	case reflect.Map:
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for i, k := range keys {
			names[i] = stringify(k.Interface())
			byName[names[i]] = k
		}
		sort.Strings(names)
		for _, name := range names {
			elem := rv.MapIndex(byName[name]).Interface()
			if !isNil(elem) {
				q.Add(field+"["+name+"]", stringify(elem))
			}
		}
	default:
		q.Add(field, stringify(rv.Interface()))
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// stringify renders a scalar the way a query value expects it.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return formatTime(x)
	case fmt.Stringer:
		return x.String()
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return stringify(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
