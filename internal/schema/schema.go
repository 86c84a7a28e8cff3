// Package schema is the registry of the field-tagged wire layouts for every
// domain transaction payload. Field numbers are canonical: renaming a field is
// non-breaking, renumbering one is. The registry carries no behavior beyond
// lookup; the encode/decode pairs for each kind live next to their asset type.
package schema

// DataType is the semantic wire type of a schema field.
type DataType string

const (
	TypeString DataType = "string"
	TypeUint64 DataType = "uint64"
	TypeBytes  DataType = "bytes"
)

// Field describes one payload field: its name, semantic type, and the stable
// field number identifying it in the serialized form.
type Field struct {
	Name        string
	DataType    DataType
	FieldNumber int
}

// Schema describes the wire layout of one asset payload.
type Schema struct {
	ID     string
	Fields []Field
}

// Field numbers per asset kind. These mirror the registered sidechain schemas
// and must never be renumbered.
const (
	FoodItemsField      = 1
	FoodPriceField      = 2
	FoodDataField       = 3
	FoodNonceField      = 4
	FoodRecipientField  = 5
	ProfileNameField    = 1
	ProfileDataField    = 2
	ProfileNonceField   = 3
	ProfileRecipient    = 4
	ListItemsField      = 1
	ListRecipientField  = 2
)

// FoodOrderSchema is the wire layout of a food-order payload.
var FoodOrderSchema = Schema{
	ID: "lisk/food/transaction",
	Fields: []Field{
		{Name: "items", DataType: TypeString, FieldNumber: FoodItemsField},
		{Name: "price", DataType: TypeUint64, FieldNumber: FoodPriceField},
		{Name: "restaurantData", DataType: TypeString, FieldNumber: FoodDataField},
		{Name: "restaurantNonce", DataType: TypeString, FieldNumber: FoodNonceField},
		{Name: "recipientAddress", DataType: TypeBytes, FieldNumber: FoodRecipientField},
	},
}

// MenuSchema is the wire layout of a menu payload. Items travel as one
// JSON-serialized string field.
var MenuSchema = Schema{
	ID: "lisk/menu/transaction",
	Fields: []Field{
		{Name: "items", DataType: TypeString, FieldNumber: ListItemsField},
		{Name: "recipientAddress", DataType: TypeBytes, FieldNumber: ListRecipientField},
	},
}

// NewsSchema is the wire layout of a news payload.
var NewsSchema = Schema{
	ID: "lisk/news/transaction",
	Fields: []Field{
		{Name: "items", DataType: TypeString, FieldNumber: ListItemsField},
		{Name: "recipientAddress", DataType: TypeBytes, FieldNumber: ListRecipientField},
	},
}

// ProfileSchema is the wire layout of a profile payload.
var ProfileSchema = Schema{
	ID: "lisk/profile/transaction",
	Fields: []Field{
		{Name: "name", DataType: TypeString, FieldNumber: ProfileNameField},
		{Name: "clientData", DataType: TypeString, FieldNumber: ProfileDataField},
		{Name: "clientNonce", DataType: TypeString, FieldNumber: ProfileNonceField},
		{Name: "recipientAddress", DataType: TypeBytes, FieldNumber: ProfileRecipient},
	},
}
