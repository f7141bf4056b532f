package syntax

// Kind is the closed set of declaration shapes the model distinguishes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindClass
	KindRecord
	KindRecordStruct
	KindStruct
	KindInterface
	KindEnum
	KindDelegate
	KindMethod
	KindConstructor
	KindProperty
	KindField
	KindOther
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindClass:        "class",
	KindRecord:       "record",
	KindRecordStruct: "record struct",
	KindStruct:       "struct",
	KindInterface:    "interface",
	KindEnum:         "enum",
	KindDelegate:     "delegate",
	KindMethod:       "method",
	KindConstructor:  "constructor",
	KindProperty:     "property",
	KindField:        "field",
	KindOther:        "member",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsType reports whether declarations of this kind can hold members.
func (k Kind) IsType() bool {
	switch k {
	case KindClass, KindRecord, KindRecordStruct, KindStruct, KindInterface, KindEnum:
		return true
	}
	return false
}

// IsClassShaped reports whether the kind declares a reference type with
// inheritance: classes and record classes.
func (k Kind) IsClassShaped() bool {
	return k == KindClass || k == KindRecord
}

// kindOf maps a tree-sitter node type to a Kind. Node types that are not
// declarations map to KindInvalid.
func kindOf(nodeType string, isStruct bool) Kind {
	switch nodeType {
	case "class_declaration":
		return KindClass
	case "record_declaration":
		if isStruct {
			return KindRecordStruct
		}
		return KindRecord
	case "record_struct_declaration":
		return KindRecordStruct
	case "struct_declaration":
		return KindStruct
	case "interface_declaration":
		return KindInterface
	case "enum_declaration":
		return KindEnum
	case "delegate_declaration":
		return KindDelegate
	case "method_declaration":
		return KindMethod
	case "constructor_declaration":
		return KindConstructor
	case "property_declaration":
		return KindProperty
	case "field_declaration":
		return KindField
	case "destructor_declaration", "operator_declaration", "conversion_operator_declaration",
		"indexer_declaration", "event_declaration", "event_field_declaration":
		return KindOther
	}
	return KindInvalid
}
