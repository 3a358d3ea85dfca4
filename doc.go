// Package wiremodel maps wire JSON of a generated cloud SDK to model
// instances and back, without reflection.
//
// - A Registry holds one Schema per model type: fields with wire names, type
//   expressions (primitives, object names, array<T>, map<T>), enum constraints,
//   defaults and discriminator subtype maps.
// - A Mapper coerces generic wire values into Instances, resolving polymorphic
//   bases through their discriminator, guarding enums (strict for request
//   models, lenient with a sentinel for response models) and reporting
//   recoverable conditions to a Diagnostics sink.
// - Instances track presence per field, so a field never assigned is omitted
//   on output while an explicit null is emitted as null.
// - Errors are typed (errors.As) with sentinels (errors.Is) and project into
//   Issues (JSON Pointer, code, message) for API layers.
//
// Design policy:
// - Keep only public APIs in the root package; put token-level machinery under
//   internal/.
// - Wire drivers live under source/, declaration loading under declare/, the
//   embedded service models under catalog/ and the CLI under cmd/wiremodel.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg := wiremodel.NewRegistry()
//	_ = declare.Load(reg, yamlBytes, declare.FormatYAML)
//	m, err := wiremodel.NewMapper(reg, wiremodel.WithDiagnostics(wiremodel.SlogDiagnostics(logger)))
//	conn, err := m.Unmarshal(body, "Connection")
//	out, err := m.Marshal(conn)
package wiremodel
