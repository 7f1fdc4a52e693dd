// Package gen derives persistence models, DAOs, DTOs and converters from a
// resolved table schema.
//
// # Pipeline
//
// Generation runs one table at a time:
//
//	load.Table
//	    ↓
//	Model emitter   (model struct + DAO)
//	    ↓
//	DTO emitter     (recursive over nested records)
//	    ↓
//	Converter emitter (recursive over nested records)
//	    ↓
//	Renderer → Writer
//
// Emitters never build source text. They produce plans, plain data
// describing the declarations of one file, and a [Renderer] turns each plan
// into source. The Go renderer lives in compiler/gen/golang.
//
// # Registry
//
// Every run owns a [Registry] that memoizes model, DTO and converter
// descriptors by the qualified model name. A descriptor is registered
// before its fields are resolved, so schemas whose records reference each
// other generate exactly one artifact per type.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: a name, type or qualifier is missing from the schema
//   - ReferenceError: a nested type could not be resolved
//   - ConfigError: configuration errors, reported before any output
//   - GenerationError: rendering or writing failed
//
// Schema and reference errors are isolated per table and collected in the
// [Report]. Configuration, rendering and writing errors, as well as
// [ErrDanglingReference], abort the run.
package gen
