// Package checksum fingerprints input files.
//
// Two checksums are kept per file:
//
//   - Raw checksum: SHA-256 of the exact bytes on disk (detects all changes)
//   - Content checksum: SHA-256 of the parsed cells (identifies the same
//     export saved as CSV or Excel, with another delimiter or encoding)
//
// The content checksum trims every cell, ignores blank rows and drops
// trailing empty cells, so padding differences between formats do not
// change it.
//
// # Example Usage
//
//	calc := checksum.New()
//	raw := calc.CalculateRaw(fileContent)
//	content := calc.CalculateContent(header, records)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
