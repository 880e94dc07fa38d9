package hydra

import (
	"reflect"
	"testing"
	"time"
)

type bookState string

func (s bookState) String() string { return "state:" + string(s) }

func TestEncodeQuery_Pagination(t *testing.T) {
	tests := []struct {
		name string
		opts ListOptions
		want string
	}{
		{"defaults", ListOptions{}, "pagination=true&page=1&itemsPerPage=10"},
		{"explicit page", ListOptions{PageIndex: 2, PageSize: 25}, "pagination=true&page=3&itemsPerPage=25"},
		{"disabled", ListOptions{NoPagination: true, PageIndex: 4, PageSize: 50}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeQuery(tt.opts).Encode(); got != tt.want {
				t.Errorf("EncodeQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeQuery_Sort(t *testing.T) {
	q := EncodeQuery(ListOptions{
		NoPagination: true,
		SortBy:       []Sort{{Field: "title"}, {Field: "publishedAt", Desc: true}},
	})
	want := Query{
		{"order[title]", "ASC"},
		{"order[publishedAt]", "DESC"},
	}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("EncodeQuery() = %v, want %v", q, want)
	}
	if got := q.Encode(); got != "order%5Btitle%5D=ASC&order%5BpublishedAt%5D=DESC" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestEncodeQuery_Filters(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	ts := time.Date(2024, 3, 9, 14, 5, 6, 7_000_000, berlin)
	rating := 4

	tests := []struct {
		name   string
		filter Filter
		want   Query
	}{
		{"string", Filter{"status", "active"}, Query{{"status", "active"}}},
		{"bool", Filter{"available", true}, Query{{"available", "true"}}},
		{"int", Filter{"rating", 5}, Query{{"rating", "5"}}},
		{"float", Filter{"price", 9.5}, Query{{"price", "9.5"}}},
		{"pointer", Filter{"rating", &rating}, Query{{"rating", "4"}}},
		{"stringer", Filter{"state", bookState("open")}, Query{{"state", "state:open"}}},
		{"time", Filter{"publishedAt", ts}, Query{{"publishedAt", "2024-03-09T12:05:06.007Z"}}},
		{"nil", Filter{"author", nil}, nil},
		{"nil pointer", Filter{"rating", (*int)(nil)}, nil},
		{"string list", Filter{"tags", []string{"sf", "classic"}}, Query{{"tags[]", "sf"}, {"tags[]", "classic"}}},
		{"number list", Filter{"id", []int{1, 2}}, Query{{"id[]", "1"}, {"id[]", "2"}}},
		{"list skips nil", Filter{"id", []any{1, nil, "x"}}, Query{{"id[]", "1"}, {"id[]", "x"}}},
		{
			"map sorted",
			Filter{"price", map[string]any{"lte": 20, "gte": 10, "skip": nil}},
			Query{{"price[gte]", "10"}, {"price[lte]", "20"}},
		},
		{
			"ordered fields",
			Filter{"publishedAt", Fields{{"before", ts}, {"after", "2020-01-01"}, {"strictly_after", nil}}},
			Query{{"publishedAt[before]", "2024-03-09T12:05:06.007Z"}, {"publishedAt[after]", "2020-01-01"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeQuery(ListOptions{NoPagination: true, Filters: []Filter{tt.filter}})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EncodeQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeQuery_Properties(t *testing.T) {
	q := EncodeQuery(ListOptions{
		NoPagination: true,
		Properties:   []string{"title", "author.name", "author.address.city"},
	})
	want := Query{
		{"properties[]", "title"},
		{"properties[author][]", "name"},
		{"properties[author][address][]", "city"},
	}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("EncodeQuery() = %v, want %v", q, want)
	}
}

func TestEncodeQuery_Order(t *testing.T) {
	q := EncodeQuery(ListOptions{
		SortBy:     []Sort{{Field: "title"}},
		Filters:    []Filter{{"status", "active"}, {"status", "active"}},
		Properties: []string{"title"},
	})
	var keys []string
	for _, p := range q {
		keys = append(keys, p.Key)
	}
	want := []string{"pagination", "page", "itemsPerPage", "order[title]", "status", "status", "properties[]"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestEncodeQuery_Idempotent(t *testing.T) {
	opts := ListOptions{
		PageIndex:  1,
		SortBy:     []Sort{{Field: "title", Desc: true}},
		Filters:    []Filter{{"price", map[string]int{"gte": 1, "lte": 9}}, {"tags", []string{"a"}}},
		Properties: []string{"author.name"},
	}
	first := EncodeQuery(opts).Encode()
	for i := 0; i < 5; i++ {
		if got := EncodeQuery(opts).Encode(); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}

func TestQuery_Encode(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"empty", nil, ""},
		{"space and reserved", Query{{"title", "a b&c=d"}}, "title=a+b%26c%3Dd"},
		{"unreserved marks", Query{{"k", "*-._~!'()"}}, "k=*-._%7E%21%27%28%29"},
		{"utf-8", Query{{"name", "Émile"}}, "name=%C3%89mile"},
		{"invalid utf-8", Query{{"x", "a\xffb"}}, "x=a%EF%BF%BDb"},
		{"slash and plus", Query{{"iri", "/books/1+2"}}, "iri=%2Fbooks%2F1%2B2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuery_GetAndValues(t *testing.T) {
	var q Query
	q.Add("tags[]", "a")
	q.Add("status", "active")
	q.Add("tags[]", "b")

	if v, ok := q.Get("status"); !ok || v != "active" {
		t.Errorf("Get(status) = %q, %v", v, ok)
	}
	if _, ok := q.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
	if got := q.Values("tags[]"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Values(tags[]) = %v", got)
	}
	if q.String() != q.Encode() {
		t.Error("String() should match Encode()")
	}
}
