package hydra

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Ref identifies a single resource: either a numeric ID relative to a
// collection path, or a full IRI.
type Ref interface {
	// Resolve returns the request path for the resource under base.
	Resolve(base string) string
	isRef()
}

// ID is a numeric resource identifier. It resolves to base + "/" + id.
type ID int64

// Resolve implements Ref.
func (id ID) Resolve(base string) string {
	return strings.TrimRight(base, "/") + "/" + strconv.FormatInt(int64(id), 10)
}

func (ID) isRef() {}

// IRI is a resource IRI such as "/books/1". As a Ref it resolves to itself.
type IRI string

// Resolve implements Ref. The IRI is used verbatim.
func (i IRI) Resolve(string) string { return string(i) }

func (IRI) isRef() {}

// String returns the IRI.
func (i IRI) String() string { return string(i) }

// Collection returns the collection path of an IRI shaped like
// "/<collection>/<id>", e.g. "/books" for "/books/1".
func (i IRI) Collection() string {
	s := string(i)
	idx := strings.LastIndexByte(s, '/')
	if idx <= 0 {
		return ""
	}
	return s[:idx]
}

// ID extracts the trailing numeric identifier of an IRI shaped like
// "/<collection>/<number>".
func (i IRI) ID() (ID, bool) {
	s := string(i)
	idx := strings.LastIndexByte(s, '/')
	if idx <= 0 || idx == len(s)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return ID(n), true
}

// Identified is implemented by request bodies that know which resource they
// target. Identity returns nil when the body carries no identifier.
type Identified interface {
	Identity() Ref
}

// RefOf finds the identifier carried by v: Identity() when v is Identified,
// otherwise the "@id" member of its JSON encoding, falling back to a numeric
// "id" member.
func RefOf(v any) (Ref, bool) {
	if v == nil {
		return nil, false
	}
	if ident, ok := v.(Identified); ok {
		if ref := ident.Identity(); ref != nil {
			return ref, true
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var probe struct {
		IRI *string         `json:"@id"`
		ID  json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false
	}
	if probe.IRI != nil && *probe.IRI != "" {
		return IRI(*probe.IRI), true
	}
	if len(probe.ID) > 0 {
		if n, err := strconv.ParseInt(string(probe.ID), 10, 64); err == nil {
			return ID(n), true
		}
	}
	return nil, false
}
