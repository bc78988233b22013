package errors

import (
	"github.com/ygrebnov/errorc"

	"github.com/timecoach/instance/constants"
)

var namespace = errorc.Namespace(constants.Namespace)

// Sentinel errors. Use errors.Is to match.
var (
	ErrConstruction                  = namespace.NewError("cannot construct instance")
	ErrPropertyNotFound              = namespace.NewError("property not found")
	ErrPropertyTypeMismatch          = namespace.NewError("property type mismatch")
	ErrSetProperty                   = namespace.NewError("cannot set property")
	ErrInvalidSetter                 = namespace.NewError("setter must have non-empty name and non-nil function")
	ErrDuplicateSetter               = namespace.NewError("duplicate setter overload")
	ErrInvalidDescriptor             = namespace.NewError("descriptor name must not be empty")
	ErrDuplicateDescriptor           = namespace.NewError("duplicate descriptor")
	ErrSetDefault                    = namespace.NewError("cannot set default value")
	ErrDefaultLiteralUnsupportedKind = namespace.NewError("default literal unsupported kind")
	ErrFixtureParse                  = namespace.NewError("cannot parse fixtures")
	ErrFixtureNotFound               = namespace.NewError("fixture not found")
)

var newKey = errorc.KeyFactory(constants.ErrorFieldNamespace)

// Internal hierarchical segments used to build dotted keys.
const (
	keySegmentType     = "type"
	keySegmentProperty = "property"
	keySegmentValue    = "value"
	keySegmentDefault  = "default"
	keySegmentFixture  = "fixture"
)

// Exported structured error field keys
var (
	ErrorFieldTypeName       = newKey("name", keySegmentType)                // instance.type.name
	ErrorFieldPropertyName   = newKey("name", keySegmentProperty)            // instance.property.name
	ErrorFieldPropertyType   = newKey("type", keySegmentProperty)            // instance.property.type
	ErrorFieldAvailableTypes = newKey("available_types", keySegmentProperty) // instance.property.available_types
	ErrorFieldValueType      = newKey("type", keySegmentValue)               // instance.value.type
)

var (
	ErrorFieldDefaultLiteralKind = newKey("literal_kind", keySegmentDefault) // instance.default.literal_kind
	ErrorFieldFixtureName        = newKey("name", keySegmentFixture)         // instance.fixture.name
)

var (
	ErrorFieldCause = newKey("cause")
)
