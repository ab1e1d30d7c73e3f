package format

// Page sizes per engine generation
const (
	PageSizeJet3 = 2048
	PageSizeJet4 = 4096
)

// JetVersion is the engine generation stored at offset 0x14 of page 0.
type JetVersion uint8

const (
	Jet3    JetVersion = 0
	Jet4    JetVersion = 1
	Jet2007 JetVersion = 2
	Jet2010 JetVersion = 3
	Jet2013 JetVersion = 4
	Jet2016 JetVersion = 5
	Jet2019 JetVersion = 6
)

// PageSize returns the page size used by files of this version.
func (v JetVersion) PageSize() int {
	if v == Jet3 {
		return PageSizeJet3
	}
	return PageSizeJet4
}

// RowCountOffset is where a data page stores its row count.
func (v JetVersion) RowCountOffset() int {
	if v == Jet3 {
		return 0x08
	}
	return 0x0c
}

func (v JetVersion) String() string {
	switch v {
	case Jet3:
		return "Jet3"
	case Jet4:
		return "Jet4"
	case Jet2007:
		return "ACE12"
	case Jet2010:
		return "ACE14"
	case Jet2013:
		return "ACE15"
	case Jet2016:
		return "ACE16"
	case Jet2019:
		return "ACE17"
	default:
		return "unknown"
	}
}

// Header page layout
const (
	VersionOffset = 0x14
	MagicOffset   = 0x04
)

var (
	MagicJet = []byte("Standard Jet DB")
	MagicACE = []byte("Standard ACE DB")
)

// PageType is the first byte of every page.
type PageType uint8

const (
	PageTypeDB       PageType = 0x00
	PageTypeData     PageType = 0x01
	PageTypeTableDef PageType = 0x02
	PageTypeIndexInt PageType = 0x03
	PageTypeIndexLf  PageType = 0x04
	PageTypeUsageMap PageType = 0x05
)

func (t PageType) String() string {
	switch t {
	case PageTypeDB:
		return "database"
	case PageTypeData:
		return "data"
	case PageTypeTableDef:
		return "tabledef"
	case PageTypeIndexInt:
		return "index-internal"
	case PageTypeIndexLf:
		return "index-leaf"
	case PageTypeUsageMap:
		return "usage-map"
	default:
		return "unknown"
	}
}

// Data page header
const (
	FreeSpaceOffset = 2
	TableDefOffset  = 4
)

// Row offset flags
const (
	RowOffsetMask  = 0x1fff
	RowFlagLookup  = 0x4000
	RowFlagDeleted = 0x8000
)

// Usage map discriminants
const (
	MapTypeInline   byte = 0
	MapTypeIndirect byte = 1
)

// Usage map layout
const (
	InlineMapHeader   = 5 // type byte + 4-byte page base
	IndirectRefSize   = 4
	IndirectPageStart = 4 // map pages start their bitmap after a 4-byte header
)

// Fixed-point field widths
const (
	MoneySize        = 8
	NumericSize      = 17 // sign byte + 16 magnitude bytes
	NumericMagnitude = 16
	MoneyScale       = 4
	MaxNumericDigits = 38
	MaxNumericScale  = MaxNumericDigits
)
