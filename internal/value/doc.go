// Package value defines the typed value model exchanged with tool providers
// and the codec that converts it to and from JSON-shaped data.
//
// A [Value] is one of six kinds: [String], [Number], [Bool], [Null], [List]
// and [*Map]. The set is closed; code that needs to branch on the kind
// implements [Visitor] so that a new kind fails to compile everywhere it is
// not handled.
//
// # Encoding
//
// [Encode] produces data suitable for encoding/json. Maps encode as ordered
// JSON objects, so key order survives marshaling:
//
//	args := value.NewMap().
//		Set("path", value.String("/tmp")).
//		Set("depth", value.Number(2))
//	data, _ := json.Marshal(value.Encode(args)) // {"path":"/tmp","depth":2}
//
// # Decoding
//
// [Decode] accepts anything encoding/json produces, plus any Go slice or
// string-keyed map. It never fails: unsupported shapes are stringified.
// [DecodeJSON] parses JSON text and keeps the source order of object keys.
package value
