package domain

// Variant selects the visual emphasis a badge is rendered with.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSecondary   Variant = "secondary"
	VariantDestructive Variant = "destructive"
	VariantOutline     Variant = "outline"
)

// Display is the label and emphasis of a code.
type Display struct {
	Label   string  `json:"label"`
	Variant Variant `json:"variant"`
}

var categoryLabels = map[Category]string{
	CategoryTraffic:        "Verkehr",
	CategoryEnvironment:    "Umwelt",
	CategoryLighting:       "Beleuchtung",
	CategoryVandalism:      "Vandalismus",
	CategoryAdministration: "Verwaltung",
}

// statusDisplay is total over both status schemas.
var statusDisplay = map[FeedbackStatus]Display{
	StatusOpen:          {Label: "Offen", Variant: VariantDefault},
	StatusInProgress:    {Label: "In Bearbeitung", Variant: VariantSecondary},
	StatusInProgressAlt: {Label: "In Bearbeitung", Variant: VariantSecondary},
	StatusDone:          {Label: "Erledigt", Variant: VariantOutline},
	StatusClosed:        {Label: "Geschlossen", Variant: VariantOutline},
}

var roleDisplay = map[Role]Display{
	RoleCitizen: {Label: "Bürger", Variant: VariantOutline},
	RoleStaff:   {Label: "Mitarbeiter", Variant: VariantSecondary},
	RoleAdmin:   {Label: "Administrator", Variant: VariantDestructive},
}

// CategoryLabel returns the display label of c, or the raw code if unknown.
func CategoryLabel(c Category) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	if c == CategoryAll {
		return "Alle Kategorien"
	}
	return string(c)
}

// StatusDisplay returns label and variant of s. Unknown codes render as the
// raw code with the outline variant.
func StatusDisplay(s FeedbackStatus) Display {
	if d, ok := statusDisplay[s]; ok {
		return d
	}
	return Display{Label: string(s), Variant: VariantOutline}
}

// RoleDisplay returns label and variant of r.
func RoleDisplay(r Role) Display {
	if d, ok := roleDisplay[r]; ok {
		return d
	}
	return Display{Label: string(r), Variant: VariantOutline}
}
