package tabledefinition

import (
	"regexp"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// targetFuncT returns the Arrow type for a column given the NUMBER cast precision and scale.
type targetFuncT func(precision, scale int) arrow.DataType

// dataTypeLink joins an Oracle data type to the Arrow type used in the Parquet output.
type dataTypeLink struct {
	SourceDataType string
	TargetFunc     targetFuncT
}

// dataTypeMap implements Mapper.
type dataTypeMap struct {
	mapTypes map[string]targetFuncT
}

// Mapper converts Oracle column types into Arrow types.
type Mapper interface {
	Map(oracleDataType string, precision, scale int) arrow.DataType
	Supported(oracleDataType string) bool
}

func newDataTypeMapper(types []dataTypeLink) dataTypeMap {
	dtm := dataTypeMap{mapTypes: make(map[string]targetFuncT)}
	for _, row := range types {
		dtm.mapTypes[row.SourceDataType] = row.TargetFunc
	}
	return dtm
}

// NewOracleToArrowDataTypeMapper returns a Mapper using OracleToArrowDataTypeMapping.
func NewOracleToArrowDataTypeMapper() Mapper {
	return newDataTypeMapper(OracleToArrowDataTypeMapping)
}

var reParenthesised = regexp.MustCompile(`\([^)]*\)`)

// normaliseDataType lower cases t and drops length/precision groups so that
// "TIMESTAMP(6) WITH TIME ZONE" becomes "timestamp with time zone".
func normaliseDataType(t string) string {
	t = reParenthesised.ReplaceAllString(strings.ToLower(t), "")
	return strings.Join(strings.Fields(t), " ")
}

// Map returns the Arrow type for oracleDataType.
// Unknown types fall back to strings since the driver returns their text form.
func (o dataTypeMap) Map(oracleDataType string, precision, scale int) arrow.DataType {
	fn, ok := o.mapTypes[normaliseDataType(oracleDataType)]
	if !ok {
		return arrow.BinaryTypes.String
	}
	return fn(precision, scale)
}

func (o dataTypeMap) Supported(oracleDataType string) bool {
	_, ok := o.mapTypes[normaliseDataType(oracleDataType)]
	return ok
}

// OracleToArrowDataTypeMapping contains a mapping of Oracle to Arrow data types.
// NUMBER columns are extracted through a cast so their Arrow type follows the cast precision and scale.
var OracleToArrowDataTypeMapping = []dataTypeLink{
	{SourceDataType: "number", TargetFunc: targetNumber},
	{SourceDataType: "float", TargetFunc: targetFloat64},
	{SourceDataType: "binary_float", TargetFunc: targetFloat64},
	{SourceDataType: "binary_double", TargetFunc: targetFloat64},
	{SourceDataType: "date", TargetFunc: targetTimestamp},
	{SourceDataType: "timestamp", TargetFunc: targetTimestamp},
	{SourceDataType: "timestamp with time zone", TargetFunc: targetTimestamp},
	{SourceDataType: "timestamp with local time zone", TargetFunc: targetTimestamp},
	{SourceDataType: "varchar2", TargetFunc: targetString},
	{SourceDataType: "nvarchar2", TargetFunc: targetString},
	{SourceDataType: "varchar", TargetFunc: targetString},
	{SourceDataType: "char", TargetFunc: targetString},
	{SourceDataType: "nchar", TargetFunc: targetString},
	{SourceDataType: "clob", TargetFunc: targetString},
	{SourceDataType: "nclob", TargetFunc: targetString},
	{SourceDataType: "long", TargetFunc: targetString},
	{SourceDataType: "rowid", TargetFunc: targetString},
	{SourceDataType: "urowid", TargetFunc: targetString},
	{SourceDataType: "interval day to second", TargetFunc: targetString},
	{SourceDataType: "interval year to month", TargetFunc: targetString},
	{SourceDataType: "raw", TargetFunc: targetBinary},
	{SourceDataType: "long raw", TargetFunc: targetBinary},
	{SourceDataType: "blob", TargetFunc: targetBinary},
}

// targetNumber gives an int64 for whole numbers that fit, else a decimal.
func targetNumber(precision, scale int) arrow.DataType {
	if scale == 0 && precision > 0 && precision <= 18 {
		return arrow.PrimitiveTypes.Int64
	}
	return &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}
}

func targetFloat64(_, _ int) arrow.DataType {
	return arrow.PrimitiveTypes.Float64
}

func targetTimestamp(_, _ int) arrow.DataType {
	return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
}

func targetString(_, _ int) arrow.DataType {
	return arrow.BinaryTypes.String
}

func targetBinary(_, _ int) arrow.DataType {
	return arrow.BinaryTypes.Binary
}

// ArrowSchema builds the schema of an extracted table from its columns, in order.
// All fields are nullable.
func ArrowSchema(m Mapper, columns []ColumnDescriptor, precision, scale int) *arrow.Schema {
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     m.Map(c.DataType, precision, scale),
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}
