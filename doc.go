// Package gomdb reads legacy desktop database files (Jet3 ".mdb" and
// Jet4/ACE ".mdb"/".accdb").
//
// The library is organized into packages by concern:
//
// Core Formats:
//   - format: page geometry, version codes, little-endian readers and errors
//   - usagemap: allocation bitmaps (inline and indirect usage maps)
//   - decimal: exact text rendering of MONEY and NUMERIC fields
//   - like: LIKE and case-insensitive ILIKE pattern matching
//
// Page Structure:
//   - page: page reader and cache, data page headers, row offsets,
//     row pointers and the free-space locator
//
// Rows:
//   - schema: table definitions, from CREATE TABLE text
//   - column: per-type value decoding
//   - record: row decoding and usage-map driven table scans
//   - sarg: WHERE clauses compiled into row filters
//
// Basic usage:
//
//	f, _ := gomdb.Open("orders.mdb", nil)
//	defer f.Close()
//
//	usage, _ := f.UsageMap(gomdb.RowPointer(0x0201))
//	pages, _ := f.AllocatedPages(usage)
//
//	td, _ := schema.ParseTableDefFromSQL("CREATE TABLE orders (id INT, note VARCHAR(80))")
//	filter, _ := f.CompileFilter("note like '%urgent%'", true)
//	f.Scan(usage, td, func(r *record.Row) bool {
//	    if filter.Match(r) {
//	        fmt.Println(r.Values)
//	    }
//	    return true
//	})
package gomdb
