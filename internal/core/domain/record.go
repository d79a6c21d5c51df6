package domain

import "strings"

// Field identifies one canonical record field. The value is the literal
// Polish field name used both for column matching and for placeholder
// tokens in the slide template.
type Field string

const (
	FieldFirstName   Field = "Imię"
	FieldLastName    Field = "Nazwisko"
	FieldCompany     Field = "Firma"
	FieldIndustry    Field = "Branża"
	FieldGroup       Field = "Grupa"
	FieldDescription Field = "Opis"
	FieldScale       Field = "Skala"
	FieldPhoto       Field = "Zdjęcie"
	FieldLogo        Field = "Logo"
)

// AllFields lists every canonical field in resolution order.
var AllFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldCompany,
	FieldIndustry,
	FieldGroup,
	FieldDescription,
	FieldScale,
	FieldPhoto,
	FieldLogo,
}

// TextFields lists the fields that have placeholder tokens in template
// text. Photo and logo columns carry filenames, not display text.
var TextFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldCompany,
	FieldIndustry,
	FieldGroup,
	FieldDescription,
	FieldScale,
}

// RequiredFields are the columns the strict-validation mode insists on
// before generation may start.
var RequiredFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldCompany,
	FieldDescription,
	FieldScale,
}

// Record is one row of the source table. Identity is the row position;
// there is no primary key.
type Record struct {
	Row         int
	FirstName   string
	LastName    string
	Company     string
	Industry    string
	Group       string
	Description string
	Scale       string
	PhotoFile   string
	LogoFile    string

	// ScaleValue is the numeric sort key derived from Scale.
	ScaleValue float64

	// Included marks whether the record survives selection.
	Included bool
}

// Value returns the raw string value for a canonical field.
func (r *Record) Value(f Field) string {
	switch f {
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldCompany:
		return r.Company
	case FieldIndustry:
		return r.Industry
	case FieldGroup:
		return r.Group
	case FieldDescription:
		return r.Description
	case FieldScale:
		return r.Scale
	case FieldPhoto:
		return r.PhotoFile
	case FieldLogo:
		return r.LogoFile
	}
	return ""
}

// Display returns the value used for substitution: blank or absent
// values degrade to a single dash instead of raising.
func (r *Record) Display(f Field) string {
	v := strings.TrimSpace(r.Value(f))
	if v == "" {
		return "-"
	}
	return v
}

// FullName returns "Imię Nazwisko" with blanks collapsed.
func (r *Record) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// DerivedPhotoName builds the "Imię_Nazwisko" lookup key used as a
// secondary photo match when the spreadsheet has no photo column.
func (r *Record) DerivedPhotoName() string {
	return strings.ReplaceAll(r.FullName(), " ", "_")
}
