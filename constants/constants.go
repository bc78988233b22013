package constants

const Namespace = "instance"

// ErrorFieldNamespace for all exported error field keys.
const ErrorFieldNamespace = Namespace

// Struct tags understood by field discovery and defaults.
const (
	TagProperty    = "prop"
	TagDefault     = "default"
	TagDefaultElem = "defaultElem"
)

// Reserved tag values.
const (
	TagSkip  = "-"
	TagDive  = "dive"
	TagAlloc = "alloc"
)
