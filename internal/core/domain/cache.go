package domain

// CacheEntryType enumerates the type tags cmake persists in CMakeCache.txt.
type CacheEntryType uint8

const (
	// CacheBool is a boolean option (ON/OFF and friends).
	CacheBool CacheEntryType = iota
	// CacheString is a free-form string value.
	CacheString
	// CachePath is a directory path.
	CachePath
	// CacheFilePath is a file path.
	CacheFilePath
	// CacheInternal is an internal entry not shown to users.
	CacheInternal
	// CacheStatic is a generator-tool-owned entry that must never be user-edited.
	CacheStatic
	// CacheUninitialized is a value seeded before the project declared its type.
	CacheUninitialized
)

// String returns the on-disk tag for the entry type.
func (t CacheEntryType) String() string {
	switch t {
	case CacheBool:
		return "BOOL"
	case CacheString:
		return "STRING"
	case CachePath:
		return "PATH"
	case CacheFilePath:
		return "FILEPATH"
	case CacheInternal:
		return "INTERNAL"
	case CacheStatic:
		return "STATIC"
	case CacheUninitialized:
		return "UNINITIALIZED"
	default:
		return "UNKNOWN"
	}
}

// ParseCacheEntryType maps an on-disk tag to its CacheEntryType.
func ParseCacheEntryType(tag string) (CacheEntryType, bool) {
	switch tag {
	case "BOOL":
		return CacheBool, true
	case "STRING":
		return CacheString, true
	case "PATH":
		return CachePath, true
	case "FILEPATH":
		return CacheFilePath, true
	case "INTERNAL":
		return CacheInternal, true
	case "STATIC":
		return CacheStatic, true
	case "UNINITIALIZED":
		return CacheUninitialized, true
	default:
		return 0, false
	}
}

// CacheEntry is one typed key/value pair from the persisted cache.
type CacheEntry struct {
	Key      string
	Value    string
	Type     CacheEntryType
	HelpText string
	Advanced bool
	Choices  []string
}

// Editable reports whether the entry may be modified and persisted by users.
func (e CacheEntry) Editable() bool {
	return e.Type != CacheStatic && e.Type != CacheInternal
}

// AsBool interprets the value using cmake's truthiness rules.
func (e CacheEntry) AsBool() bool {
	switch e.Value {
	case "ON", "TRUE", "YES", "Y", "1":
		return true
	default:
		return false
	}
}
