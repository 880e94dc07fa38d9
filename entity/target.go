package entity

import (
	"github.com/kbukum/hydrakit/errors"
	"github.com/kbukum/hydrakit/hydra"
)

// Target names the resource an Update or Replace writes to, together with the
// body to send.
type Target[B any] struct {
	ref  hydra.Ref
	body B
	self bool
}

// At targets the resource identified by ref.
func At[B any](ref hydra.Ref, body B) Target[B] {
	return Target[B]{ref: ref, body: body}
}

// Self targets the resource identified by the body itself: its Identity when
// it implements hydra.Identified, otherwise its "@id" member, falling back to
// a numeric "id" member.
func Self[B any](body B) Target[B] {
	return Target[B]{body: body, self: true}
}

// Body returns the body to send.
func (t Target[B]) Body() B { return t.body }

// resolve returns the request path of the target under base.
func (t Target[B]) resolve(base string) (string, error) {
	ref := t.ref
	if t.self {
		r, ok := hydra.RefOf(t.body)
		if !ok {
			return "", errors.InvalidInput("body", "body carries neither an @id nor a numeric id")
		}
		ref = r
	}
	return resolve(ref, base)
}

func resolve(ref hydra.Ref, base string) (string, error) {
	if ref == nil {
		return "", errors.MissingField("ref")
	}
	path := ref.Resolve(base)
	if path == "" {
		return "", errors.InvalidInput("ref", "empty resource reference")
	}
	return path, nil
}
