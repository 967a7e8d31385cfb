package domain

// Bounds enforced on RemixPlan list fields. A plan outside these bounds is a
// synthesis failure, never a partial result.
const (
	MinMustInclude = 4
	MaxMustInclude = 16
	MaxAvoid       = 14
)

// RemixPlan is the structured composition plan returned by the planning model.
// The validate tags mirror the schema the model is asked to honor so that
// violations are caught locally instead of trusted to the provider.
type RemixPlan struct {
	Scene          string   `json:"scene" validate:"required"`
	Subject        string   `json:"subject" validate:"required"`
	Setting        string   `json:"setting" validate:"required"`
	Composition    string   `json:"composition" validate:"required"`
	Medium         string   `json:"medium" validate:"required"`
	Realism        string   `json:"realism" validate:"required"`
	Lighting       string   `json:"lighting" validate:"required"`
	Palette        string   `json:"palette" validate:"required"`
	StyleNotes     string   `json:"styleNotes"`
	RemixDirective string   `json:"remixDirective"`
	MustInclude    []string `json:"mustInclude" validate:"required,min=4,max=16,dive,required"`
	Avoid          []string `json:"avoid" validate:"max=14"`
}
