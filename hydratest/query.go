package hydratest

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// listQuery is the decoded form of an API Platform collection query.
type listQuery struct {
	paginate   bool
	page       int
	perPage    int
	order      []orderBy
	filters    map[string][]string
	properties [][]string
}

type orderBy struct {
	field string
	desc  bool
}

func parseListQuery(raw string, defaultPerPage int) (listQuery, error) {
	q := listQuery{paginate: true, page: 1, perPage: defaultPerPage, filters: map[string][]string{}}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return q, fmt.Errorf("invalid query string: %w", err)
	}
	// url.Values loses pair order; order[] keys are re-read from raw below.
	for key, vals := range values {
		v := vals[len(vals)-1]
		switch {
		case key == "pagination":
			q.paginate = v != "false" && v != "0"
		case key == "page":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return q, fmt.Errorf("page must be a positive integer")
			}
			q.page = n
		case key == "itemsPerPage":
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return q, fmt.Errorf("itemsPerPage must be a non-negative integer")
			}
			q.perPage = n
		case strings.HasPrefix(key, "order["):
		case key == "properties[]" || strings.HasPrefix(key, "properties["):
			prefix := bracketSegments(key[len("properties"):])
			for _, leaf := range vals {
				path := append(append([]string(nil), prefix...), leaf)
				q.properties = append(q.properties, path)
			}
		default:
			field := strings.TrimSuffix(key, "[]")
			q.filters[field] = append(q.filters[field], vals...)
		}
	}

	for _, pair := range strings.Split(raw, "&") {
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil || !strings.HasPrefix(key, "order[") || !strings.HasSuffix(key, "]") {
			continue
		}
		dir, _ := url.QueryUnescape(v)
		q.order = append(q.order, orderBy{
			field: key[len("order[") : len(key)-1],
			desc:  strings.EqualFold(dir, "desc"),
		})
	}
	return q, nil
}

// bracketSegments splits "[a][b][]" into ["a", "b"].
func bracketSegments(s string) []string {
	var segs []string
	for strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			break
		}
		if seg := s[1:end]; seg != "" {
			segs = append(segs, seg)
		}
		s = s[end+1:]
	}
	return segs
}

// apply filters and sorts members in place and returns the filtered slice.
func (q listQuery) apply(members []Resource) []Resource {
	out := members[:0]
	for _, m := range members {
		if q.matches(m) {
			out = append(out, m)
		}
	}
	if len(q.order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.order {
				c := compare(lookup(out[i], o.field), lookup(out[j], o.field))
				if c == 0 {
					continue
				}
				if o.desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	return out
}

// matches reports whether m equals one of the wanted values of every filter.
func (q listQuery) matches(m Resource) bool {
	for field, wanted := range q.filters {
		got := scalar(lookup(m, field))
		found := false
		for _, w := range wanted {
			if got == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// window returns the requested page of members and the number of the last page.
func (q listQuery) window(members []Resource) ([]Resource, int) {
	if !q.paginate || q.perPage == 0 {
		return members, 1
	}
	last := (len(members) + q.perPage - 1) / q.perPage
	if last == 0 {
		last = 1
	}
	start := (q.page - 1) * q.perPage
	if start >= len(members) {
		return []Resource{}, last
	}
	end := start + q.perPage
	if end > len(members) {
		end = len(members)
	}
	return members[start:end], last
}

// project keeps the JSON-LD members and the selected property paths of r.
func project(r Resource, paths [][]string) Resource {
	if len(paths) == 0 {
		return r
	}
	out := Resource{}
	for _, k := range []string{"@id", "@type", "@context"} {
		if v, ok := r[k]; ok {
			out[k] = v
		}
	}
	for _, p := range paths {
		copyPath(out, r, p)
	}
	return out
}

func copyPath(dst, src map[string]any, path []string) {
	v, ok := src[path[0]]
	if !ok {
		return
	}
	if len(path) == 1 {
		dst[path[0]] = v
		return
	}
	child, ok := v.(map[string]any)
	if !ok {
		return
	}
	next, ok := dst[path[0]].(map[string]any)
	if !ok {
		next = map[string]any{}
		for _, k := range []string{"@id", "@type"} {
			if id, ok := child[k]; ok {
				next[k] = id
			}
		}
		dst[path[0]] = next
	}
	copyPath(next, child, path[1:])
}

// lookup resolves a dotted field path.
func lookup(m map[string]any, field string) any {
	var cur any = m
	for _, seg := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[seg]
	}
	return cur
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func compare(a, b any) int {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(scalar(a), scalar(b))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}
