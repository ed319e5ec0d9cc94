package schema

// Node type tags.
const (
	TypeBody           = "body"
	TypeWrapper        = "wrapper"
	TypeSection        = "section"
	TypeGroup          = "group"
	TypeColumn         = "column"
	TypeHero           = "hero"
	TypeText           = "text"
	TypeImage          = "image"
	TypeButton         = "button"
	TypeDivider        = "divider"
	TypeSpacer         = "spacer"
	TypeTable          = "table"
	TypeRawHTML        = "raw-html"
	TypeSocial         = "social"
	TypeSocialLink     = "social-link"
	TypeNavbar         = "navbar"
	TypeNavbarLink     = "navbar-link"
	TypeAccordion      = "accordion"
	TypeAccordionItem  = "accordion-item"
	TypeAccordionTitle = "accordion-title"
	TypeAccordionBody  = "accordion-body"
	TypeCarousel       = "carousel"
	TypeCarouselSlide  = "carousel-slide"
)

var contentTypes = []string{
	TypeText,
	TypeImage,
	TypeButton,
	TypeDivider,
	TypeSpacer,
	TypeTable,
	TypeRawHTML,
	TypeSocial,
	TypeNavbar,
	TypeAccordion,
	TypeCarousel,
}

var contentParents = []string{TypeColumn, TypeHero}

func props(kv ...any) []Prop {
	if len(kv)%2 != 0 {
		panic("props: odd number of arguments")
	}
	result := make([]Prop, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		result = append(result, Prop{Key: kv[i].(string), Value: kv[i+1]})
	}
	return result
}

func catalog() []Definition {
	return []Definition{
		{
			Type:            TypeBody,
			Label:           "Body",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeWrapper, TypeSection, TypeHero, TypeRawHTML},
			DefaultProps:    props("width", "600px", "background-color", "#ffffff"),
			Fields: fields(
				[]Field{field("width", "Width", FieldSize)},
				[]Field{field("background-color", "Background color", FieldColor)},
			),
		},
		{
			Type:            TypeWrapper,
			Label:           "Wrapper",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeSection, TypeHero, TypeRawHTML},
			AllowedParents:  []string{TypeBody},
			DefaultProps:    props("padding", "20px 0"),
			Fields:          fields(backgroundFields, spacingFields, borderFields),
		},
		{
			Type:            TypeSection,
			Label:           "Section",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeColumn, TypeGroup, TypeRawHTML},
			AllowedParents:  []string{TypeBody, TypeWrapper},
			DefaultProps:    props("padding", "20px 0", "text-align", "center"),
			DefaultChildren: []Template{{Type: TypeColumn}},
			Fields: fields(
				backgroundFields,
				spacingFields,
				borderFields,
				[]Field{
					field("text-align", "Text alignment", FieldSelect, alignOptions...),
					field("full-width", "Full width", FieldSelect, "full-width", "false"),
				},
			),
		},
		{
			Type:            TypeGroup,
			Label:           "Group",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeColumn, TypeRawHTML},
			AllowedParents:  []string{TypeSection},
			DefaultProps:    props("direction", "ltr"),
			DefaultChildren: []Template{{Type: TypeColumn}, {Type: TypeColumn}},
			Fields: []Field{
				field("width", "Width", FieldSize),
				field("direction", "Direction", FieldSelect, "ltr", "rtl"),
				field("background-color", "Background color", FieldColor),
			},
		},
		{
			Type:            TypeColumn,
			Label:           "Column",
			CanHaveChildren: true,
			AllowedChildren: contentTypes,
			AllowedParents:  []string{TypeSection, TypeGroup},
			DefaultProps:    props("vertical-align", "top"),
			Fields: fields(
				[]Field{
					field("width", "Width", FieldSize),
					field("vertical-align", "Vertical alignment", FieldSelect, "top", "middle", "bottom"),
				},
				backgroundFields[:1],
				spacingFields,
				borderFields,
			),
		},
		{
			Type:            TypeHero,
			Label:           "Hero",
			CanHaveChildren: true,
			AllowedChildren: contentTypes,
			AllowedParents:  []string{TypeBody, TypeWrapper},
			DefaultProps: props(
				"mode", "fixed-height",
				"height", "400px",
				"background-color", "#ffffff",
				"padding", "20px",
			),
			Fields: fields(
				[]Field{
					field("mode", "Mode", FieldSelect, "fixed-height", "fluid-height"),
					field("height", "Height", FieldSize),
				},
				backgroundFields,
				spacingFields,
			),
		},
		{
			Type:           TypeText,
			Label:          "Text",
			AllowedParents: contentParents,
			DefaultProps: props(
				"font-size", "14px",
				"line-height", "1.5",
				"color", "#000000",
				"padding", "10px 25px",
			),
			DefaultContent: "Write something here",
			Content:        TextContent,
			Fields:         fields(typographyFields, spacingFields),
		},
		{
			Type:           TypeImage,
			Label:          "Image",
			AllowedParents: contentParents,
			DefaultProps: props(
				"src", "https://via.placeholder.com/600x200",
				"width", "600px",
				"padding", "10px 25px",
			),
			SelfClosing: true,
			Fields: fields(
				[]Field{
					field("src", "Source", FieldURL),
					field("alt", "Alternative text", FieldText),
					field("href", "Link", FieldURL),
					field("width", "Width", FieldSize),
					field("align", "Alignment", FieldSelect, alignOptions...),
				},
				spacingFields,
				borderFields[1:],
			),
		},
		{
			Type:           TypeButton,
			Label:          "Button",
			AllowedParents: contentParents,
			DefaultProps: props(
				"href", "#",
				"background-color", "#414141",
				"color", "#ffffff",
				"border-radius", "3px",
				"padding", "10px 25px",
			),
			DefaultContent: "Click me",
			Content:        TextContent,
			Fields: fields(
				[]Field{field("href", "Link", FieldURL)},
				backgroundFields[:1],
				typographyFields,
				spacingFields,
				borderFields,
			),
		},
		{
			Type:           TypeDivider,
			Label:          "Divider",
			AllowedParents: contentParents,
			DefaultProps: props(
				"border-width", "1px",
				"border-color", "#cccccc",
				"padding", "10px 25px",
			),
			SelfClosing: true,
			Fields: fields(
				[]Field{
					field("border-width", "Border width", FieldSize),
					field("border-style", "Border style", FieldSelect, "solid", "dashed", "dotted"),
					field("border-color", "Border color", FieldColor),
				},
				spacingFields,
			),
		},
		{
			Type:           TypeSpacer,
			Label:          "Spacer",
			AllowedParents: contentParents,
			DefaultProps:   props("height", "20px"),
			SelfClosing:    true,
			Fields:         []Field{field("height", "Height", FieldSize)},
		},
		{
			Type:           TypeTable,
			Label:          "Table",
			AllowedParents: contentParents,
			DefaultProps: props(
				"cellpadding", 0,
				"cellspacing", 0,
				"width", "100%",
			),
			DefaultContent: "<tr>\n  <td>Cell</td>\n</tr>",
			Content:        HTMLContent,
			Fields: fields(
				[]Field{
					field("cellpadding", "Cell padding", FieldNumber),
					field("cellspacing", "Cell spacing", FieldNumber),
					field("width", "Width", FieldSize),
				},
				typographyFields,
				spacingFields,
			),
		},
		{
			Type:           TypeRawHTML,
			Label:          "Raw HTML",
			AllowedParents: []string{TypeBody, TypeWrapper, TypeSection, TypeGroup, TypeColumn, TypeHero},
			DefaultContent: "<!-- custom html -->",
			Content:        HTMLContent,
		},
		{
			Type:            TypeSocial,
			Label:           "Social",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeSocialLink},
			AllowedParents:  contentParents,
			DefaultProps:    props("mode", "horizontal", "align", "center", "icon-size", "20px"),
			DefaultChildren: []Template{
				{Type: TypeSocialLink, Props: props("name", "facebook", "href", "#"), Content: "Facebook"},
				{Type: TypeSocialLink, Props: props("name", "twitter", "href", "#"), Content: "Twitter"},
				{Type: TypeSocialLink, Props: props("name", "linkedin", "href", "#"), Content: "LinkedIn"},
			},
			Fields: fields(
				[]Field{
					field("mode", "Mode", FieldSelect, "horizontal", "vertical"),
					field("align", "Alignment", FieldSelect, alignOptions...),
					field("icon-size", "Icon size", FieldSize),
				},
				spacingFields,
			),
		},
		{
			Type:           TypeSocialLink,
			Label:          "Social link",
			AllowedParents: []string{TypeSocial},
			DefaultProps:   props("name", "facebook", "href", "#"),
			DefaultContent: "Share",
			Content:        TextContent,
			Fields: []Field{
				field("name", "Network", FieldSelect, "facebook", "twitter", "linkedin", "instagram", "youtube", "github"),
				field("href", "Link", FieldURL),
				field("src", "Custom icon", FieldURL),
			},
		},
		{
			Type:            TypeNavbar,
			Label:           "Navbar",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeNavbarLink},
			AllowedParents:  contentParents,
			DefaultProps:    props("align", "center"),
			DefaultChildren: []Template{
				{Type: TypeNavbarLink, Props: props("href", "#"), Content: "Home"},
				{Type: TypeNavbarLink, Props: props("href", "#"), Content: "About"},
				{Type: TypeNavbarLink, Props: props("href", "#"), Content: "Contact"},
			},
			Fields: []Field{
				field("align", "Alignment", FieldSelect, alignOptions...),
				field("hamburger", "Hamburger", FieldSelect, "hamburger", ""),
			},
		},
		{
			Type:           TypeNavbarLink,
			Label:          "Navbar link",
			AllowedParents: []string{TypeNavbar},
			DefaultProps:   props("href", "#", "color", "#000000"),
			DefaultContent: "Link",
			Content:        TextContent,
			Fields: fields(
				[]Field{field("href", "Link", FieldURL)},
				typographyFields,
				spacingFields,
			),
		},
		{
			Type:            TypeAccordion,
			Label:           "Accordion",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeAccordionItem},
			AllowedParents:  contentParents,
			DefaultProps:    props("border", "1px solid #cccccc"),
			DefaultChildren: []Template{
				{
					Type: TypeAccordionItem,
					Children: []Template{
						{Type: TypeAccordionTitle, Content: "Question"},
						{Type: TypeAccordionBody, Content: "Answer"},
					},
				},
			},
			Fields: fields(borderFields, []Field{field("font-family", "Font family", FieldText)}),
		},
		{
			Type:            TypeAccordionItem,
			Label:           "Accordion item",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeAccordionTitle, TypeAccordionBody},
			AllowedParents:  []string{TypeAccordion},
			Fields:          backgroundFields[:1],
		},
		{
			Type:           TypeAccordionTitle,
			Label:          "Accordion title",
			AllowedParents: []string{TypeAccordionItem},
			DefaultProps:   props("font-size", "14px"),
			DefaultContent: "Title",
			Content:        TextContent,
			Fields:         fields(typographyFields, spacingFields),
		},
		{
			Type:           TypeAccordionBody,
			Label:          "Accordion body",
			AllowedParents: []string{TypeAccordionItem},
			DefaultContent: "Body",
			Content:        TextContent,
			Fields:         fields(typographyFields, spacingFields),
		},
		{
			Type:            TypeCarousel,
			Label:           "Carousel",
			CanHaveChildren: true,
			AllowedChildren: []string{TypeCarouselSlide},
			AllowedParents:  contentParents,
			DefaultProps:    props("align", "center"),
			DefaultChildren: []Template{
				{Type: TypeCarouselSlide, Props: props("src", "https://via.placeholder.com/600x300")},
				{Type: TypeCarouselSlide, Props: props("src", "https://via.placeholder.com/600x300")},
			},
			Fields: []Field{
				field("align", "Alignment", FieldSelect, alignOptions...),
				field("thumbnails", "Thumbnails", FieldSelect, "visible", "hidden"),
			},
		},
		{
			Type:           TypeCarouselSlide,
			Label:          "Carousel slide",
			AllowedParents: []string{TypeCarousel},
			DefaultProps:   props("src", "https://via.placeholder.com/600x300"),
			SelfClosing:    true,
			Fields: []Field{
				field("src", "Source", FieldURL),
				field("alt", "Alternative text", FieldText),
				field("href", "Link", FieldURL),
			},
		},
	}
}
