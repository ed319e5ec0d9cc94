package schema

// FieldKind selects the editor widget used for a property. The engine
// itself never reads fields.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldColor    FieldKind = "color"
	FieldNumber   FieldKind = "number"
	FieldSize     FieldKind = "size"
	FieldURL      FieldKind = "url"
	FieldSelect   FieldKind = "select"
)

type Field struct {
	Name    string    `yaml:"name"`
	Label   string    `yaml:"label"`
	Kind    FieldKind `yaml:"kind"`
	Options []string  `yaml:"options,omitempty"`
}

func field(name, label string, kind FieldKind, options ...string) Field {
	return Field{Name: name, Label: label, Kind: kind, Options: options}
}

var (
	alignOptions = []string{"left", "center", "right"}

	spacingFields = []Field{
		field("padding", "Padding", FieldSize),
	}

	backgroundFields = []Field{
		field("background-color", "Background color", FieldColor),
		field("background-url", "Background image", FieldURL),
	}

	typographyFields = []Field{
		field("font-family", "Font family", FieldText),
		field("font-size", "Font size", FieldSize),
		field("font-weight", "Font weight", FieldSelect, "normal", "bold", "300", "500", "700"),
		field("line-height", "Line height", FieldSize),
		field("color", "Text color", FieldColor),
		field("align", "Alignment", FieldSelect, alignOptions...),
	}

	borderFields = []Field{
		field("border", "Border", FieldText),
		field("border-radius", "Border radius", FieldSize),
	}
)

func fields(groups ...[]Field) []Field {
	var result []Field
	for _, g := range groups {
		result = append(result, g...)
	}
	return result
}
