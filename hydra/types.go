package hydra

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Item is a single JSON-LD resource: the record T plus its @context, @id and
// @type. On the wire the metadata and the record share one object.
type Item[T any] struct {
	Context any
	ID      IRI
	Type    string
	Data    T
}

type itemMeta struct {
	Context any    `json:"@context,omitempty"`
	ID      IRI    `json:"@id,omitempty"`
	Type    ldType `json:"@type,omitempty"`
}

// Identity implements Identified.
func (i Item[T]) Identity() Ref {
	if i.ID == "" {
		return nil
	}
	return i.ID
}

// UnmarshalJSON decodes the metadata and the record from the same object.
func (i *Item[T]) UnmarshalJSON(data []byte) error {
	var meta itemMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	i.Context, i.ID, i.Type, i.Data = meta.Context, meta.ID, string(meta.Type), rec
	return nil
}

// MarshalJSON writes the metadata members followed by the record members.
// T must encode as a JSON object.
func (i Item[T]) MarshalJSON() ([]byte, error) {
	meta, err := json.Marshal(itemMeta{Context: i.Context, ID: i.ID, Type: ldType(i.Type)})
	if err != nil {
		return nil, err
	}
	rec, err := json.Marshal(i.Data)
	if err != nil {
		return nil, err
	}
	return mergeObjects(meta, rec)
}

// mergeObjects concatenates the members of two encoded JSON objects.
func mergeObjects(a, b []byte) ([]byte, error) {
	if bytes.Equal(b, []byte("null")) {
		b = []byte("{}")
	}
	if len(a) < 2 || a[0] != '{' || len(b) < 2 || b[0] != '{' {
		return nil, fmt.Errorf("hydra: item data must encode as a JSON object")
	}
	aBody := bytes.TrimSpace(a[1 : len(a)-1])
	bBody := bytes.TrimSpace(b[1 : len(b)-1])

	out := make([]byte, 0, len(a)+len(b))
	out = append(out, '{')
	out = append(out, aBody...)
	if len(aBody) > 0 && len(bBody) > 0 {
		out = append(out, ',')
	}
	out = append(out, bBody...)
	out = append(out, '}')
	return out, nil
}

// ldType accepts "@type" as a string or as an array of strings, keeping the
// first entry.
type ldType string

func (t *ldType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ldType(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("hydra: @type must be a string or a list of strings")
	}
	if len(list) > 0 {
		*t = ldType(list[0])
	}
	return nil
}

// Collection is a hydra:Collection page. Both the "hydra:" prefixed keys and
// the unprefixed keys of newer API Platform versions are accepted.
type Collection[T any] struct {
	Context    any
	ID         IRI
	Type       string
	Members    []T
	TotalItems int
	View       *View
}

type collectionWire[T any] struct {
	Context         any    `json:"@context,omitempty"`
	ID              IRI    `json:"@id,omitempty"`
	Type            ldType `json:"@type,omitempty"`
	HydraMember     []T    `json:"hydra:member"`
	Member          []T    `json:"member,omitempty"`
	HydraTotalItems *int   `json:"hydra:totalItems,omitempty"`
	TotalItems      *int   `json:"totalItems,omitempty"`
	HydraView       *View  `json:"hydra:view,omitempty"`
	View            *View  `json:"view,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	var w collectionWire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Context, c.ID, c.Type = w.Context, w.ID, string(w.Type)

	c.Members = w.HydraMember
	if c.Members == nil {
		c.Members = w.Member
	}
	switch {
	case w.HydraTotalItems != nil:
		c.TotalItems = *w.HydraTotalItems
	case w.TotalItems != nil:
		c.TotalItems = *w.TotalItems
	default:
		c.TotalItems = len(c.Members)
	}
	c.View = w.HydraView
	if c.View == nil {
		c.View = w.View
	}
	return nil
}

// MarshalJSON writes the hydra: prefixed form.
func (c Collection[T]) MarshalJSON() ([]byte, error) {
	members := c.Members
	if members == nil {
		members = []T{}
	}
	total := c.TotalItems
	return json.Marshal(collectionWire[T]{
		Context:         c.Context,
		ID:              c.ID,
		Type:            ldType(c.Type),
		HydraMember:     members,
		HydraTotalItems: &total,
		HydraView:       c.View,
	})
}

// HasNext reports whether the server advertised a next page.
func (c Collection[T]) HasNext() bool {
	return c.View != nil && c.View.HasNext()
}

// View holds the hydra:PartialCollectionView navigation links of a page.
type View struct {
	ID       IRI
	Type     string
	First    string
	Last     string
	Previous string
	Next     string
}

type viewWire struct {
	ID            IRI    `json:"@id,omitempty"`
	Type          ldType `json:"@type,omitempty"`
	HydraFirst    string `json:"hydra:first,omitempty"`
	HydraLast     string `json:"hydra:last,omitempty"`
	HydraPrevious string `json:"hydra:previous,omitempty"`
	HydraNext     string `json:"hydra:next,omitempty"`
	First         string `json:"first,omitempty"`
	Last          string `json:"last,omitempty"`
	Previous      string `json:"previous,omitempty"`
	Next          string `json:"next,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *View) UnmarshalJSON(data []byte) error {
	var w viewWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = View{
		ID:       w.ID,
		Type:     string(w.Type),
		First:    firstNonEmpty(w.HydraFirst, w.First),
		Last:     firstNonEmpty(w.HydraLast, w.Last),
		Previous: firstNonEmpty(w.HydraPrevious, w.Previous),
		Next:     firstNonEmpty(w.HydraNext, w.Next),
	}
	return nil
}

// MarshalJSON writes the hydra: prefixed form.
func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(viewWire{
		ID:            v.ID,
		Type:          ldType(v.Type),
		HydraFirst:    v.First,
		HydraLast:     v.Last,
		HydraPrevious: v.Previous,
		HydraNext:     v.Next,
	})
}

// HasNext reports whether a next page link is present.
func (v View) HasNext() bool { return v.Next != "" }

// NextPage returns the 1-based page number of the next link.
func (v View) NextPage() (int, bool) { return pageOf(v.Next) }

// LastPage returns the 1-based page number of the last link.
func (v View) LastPage() (int, bool) { return pageOf(v.Last) }

func pageOf(link string) (int, bool) {
	if link == "" {
		return 0, false
	}
	u, err := url.Parse(link)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
