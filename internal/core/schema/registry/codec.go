package registry

import (
	"reflect"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/pkg/encoding"
)

// Identified is satisfied by pointers to component values. The id lives
// outside the encoded value and is restored through SetObjID on decode.
type Identified[T any] interface {
	*T
	ObjID() objid.ObjId
	SetObjID(objid.ObjId)
}

// Codec is the concrete, versioned JSON codec of one component kind.
type Codec[T any] struct {
	name    string
	version int
	setID   func(*T, objid.ObjId)
	fields  map[string]reflect.Kind
}

// NewCodec builds the codec for kind name. The pointer type is inferred:
//
//	registry.NewCodec[components.Price]("price", 1)
func NewCodec[T any, PT Identified[T]](name string, version int) *Codec[T] {
	return &Codec[T]{
		name:    name,
		version: version,
		setID: func(v *T, id objid.ObjId) {
			PT(v).SetObjID(id)
		},
		fields: fieldKinds(reflect.TypeFor[T]()),
	}
}

func (c *Codec[T]) Name() string { return c.name }
func (c *Codec[T]) Version() int { return c.version }

func (c *Codec[T]) Encode(v T) ([]byte, error) {
	bz, err := encoding.Encode(v)
	if err != nil {
		return nil, eris.Wrapf(err, "kind %q", c.name)
	}
	return bz, nil
}

// Decode unmarshals raw and stamps id onto the value. Unknown fields are
// rejected so misspelled authoring keys surface as errors.
func (c *Codec[T]) Decode(id objid.ObjId, raw []byte) (T, error) {
	v, err := encoding.DecodeStrict[T](raw)
	if err != nil {
		return v, eris.Wrapf(err, "kind %q id %d", c.name, id)
	}
	c.setID(&v, id)
	return v, nil
}

// Validate reports whether raw decodes as the value of object id.
func (c *Codec[T]) Validate(id objid.ObjId, raw []byte) error {
	_, err := c.Decode(id, raw)
	return err
}

// FieldKind returns the kind of the field at the JSON path, such as
// ["attributes", "speed"].
func (c *Codec[T]) FieldKind(path ...string) (reflect.Kind, bool) {
	k, ok := c.fields[strings.Join(path, ".")]
	return k, ok
}
