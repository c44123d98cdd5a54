package calc

// Row is one body row of a result table. Cells are string, float64 or int.
type Row []any

// Section is a secondary table attached to a Result
type Section struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Result is what every calculator returns
type Result struct {
	Calculator string    `json:"calculator"`
	Steps      []string  `json:"steps"`
	Headers    []string  `json:"headers"`
	Rows       []Row     `json:"rows"`
	Sections   []Section `json:"sections,omitempty"`

	// Next holds the out-of-sample forecast values (forecast only)
	Next []string `json:"next,omitempty"`
}

// Section returns the named section, or nil if the result has none by that name
func (r *Result) Section(name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

// Tables returns the primary table followed by every section, in order.
// The primary table is named after the calculator.
func (r *Result) Tables() []Section {
	tables := make([]Section, 0, len(r.Sections)+1)
	tables = append(tables, Section{Name: r.Calculator, Headers: r.Headers, Rows: r.Rows})
	return append(tables, r.Sections...)
}

// Params carries the auxiliary parameters a calculator may read.
// Zero values mean "use the calculator default". Horizon is a pointer so
// that an explicit zero can be told apart from an absent value.
type Params struct {
	Window          int    `json:"window,omitempty" yaml:"window"`
	Horizon         *int   `json:"horizon,omitempty" yaml:"horizon"`
	Weights         string `json:"weights,omitempty" yaml:"weights"`
	Overrides       string `json:"overrides,omitempty" yaml:"overrides"`
	PerLine         bool   `json:"per_line,omitempty" yaml:"per_line"`
	StrictAlignment bool   `json:"strict,omitempty" yaml:"strict"`
}

// Default parameter values
const (
	DefaultWindow  = 3
	DefaultHorizon = 3
)

// Display precision of pre-formatted values
const (
	ForecastPrecision    = 2
	SAWPrecision         = 4
	ProfilePrecision     = 4
	SupportPrecision     = 4
	ProbabilityPrecision = 3
)

// Placeholder is rendered for cells that carry no value
const Placeholder = "-"
