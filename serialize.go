package wordvecs

import (
	"bytes"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer((&Model{}).SerializerType(), DeserializeModel)
}

// DeserializeModel deserializes a Model.
//
// The resulting Model always keeps its rows in memory,
// even if the serialized Model was memory mapped.
func DeserializeModel(d []byte) (*Model, error) {
	m, err := read(bytes.NewReader(d), NativeBinary)
	if err != nil {
		return nil, essentials.AddCtx("deserialize Model", err)
	}
	return m, nil
}

// SerializerType returns the unique ID used to serialize
// a Model with the serializer package.
func (m *Model) SerializerType() string {
	return "github.com/unixpickle/wordvecs.Model"
}

// Serialize serializes the Model in the NativeBinary
// format.
func (m *Model) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf, NativeBinary); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
