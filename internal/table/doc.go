// Package table loads tabular export files into an in-memory table with
// named columns.
//
// Supported inputs:
//   - CSV: configurable delimiter, UTF-8 (with or without BOM), UTF-16 with BOM,
//     and a Windows-1252 fallback for legacy exports
//   - XLSX: the first worksheet of an Excel workbook
//
// Cell text is trimmed. A cell that is empty after trimming, or whose column is
// missing from the file, is absent: Row.Get reports it as not present.
package table
