// exports.go - Re-exports for main package API
package gomdb

import (
	"github.com/wilhasse/go-mdb/decimal"
	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/like"
	"github.com/wilhasse/go-mdb/page"
	"github.com/wilhasse/go-mdb/record"
	"github.com/wilhasse/go-mdb/usagemap"
)

// Re-export types from format package
type (
	JetVersion = format.JetVersion
	PageType   = format.PageType
)

// Re-export constants from format package
const (
	Jet3             = format.Jet3
	Jet4             = format.Jet4
	PageTypeDB       = format.PageTypeDB
	PageTypeData     = format.PageTypeData
	PageTypeTableDef = format.PageTypeTableDef
	PageTypeUsageMap = format.PageTypeUsageMap
)

// Re-export errors from format package
var (
	ErrUnsupportedMapType    = format.ErrUnsupportedMapType
	ErrTruncatedPage         = format.ErrTruncatedPage
	ErrMalformedNumericField = format.ErrMalformedNumericField
	ErrStorageExhausted      = format.ErrStorageExhausted
)

// Re-export types from page and record packages
type (
	RowPointer = page.RowPointer
	DataPage   = page.DataPage
	Allocator  = page.Allocator
	Row        = record.Row
	PageLoader = usagemap.PageLoader
)

// Re-export functions
var (
	ParseDataPage   = page.ParseDataPage
	MoneyToString   = decimal.MoneyToString
	NumericToString = decimal.NumericToString
	Like            = like.Like
	ILike           = like.ILike
)
