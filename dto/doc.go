// Package dto provides the transport types and conversion helpers that
// generated DTOs and converters are built on.
//
// Identifiers travel as [StringID], 64-bit integers as [WideInt] (encoded as
// strings so that clients without native 64-bit integers keep precision),
// timestamps as [DateTime] and enumerations as [Name]. The [Slice] and [Ptr]
// helpers lift element conversions over slices and nullable values.
package dto
