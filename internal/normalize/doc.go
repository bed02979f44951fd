// Package normalize strips run-specific content from the header comment of
// generated source files so that repeated generator runs produce identical
// bytes.
//
// # Model
//
//   - Signature – one generator: the fixed marker it writes into the header,
//     a detection pattern for the marker line and patterns for header lines
//     carrying variable content (timestamps).
//   - Registry – ordered, caller-extensible set of signatures. Builtin holds
//     the JAXB xjc flavours.
//   - Normalizer – classify a file against the signatures, then rewrite the
//     header or copy the bytes unchanged.
//
// The header is the leading contiguous comment region of the file. Marker
// text found anywhere else never matches. Line endings are preserved exactly
// and unrecognized files are copied byte for byte.
//
// Не делает: поиск файлов, пакетную обработку, кэширование (см. internal/driver).
package normalize
