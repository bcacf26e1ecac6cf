package config

// Column names expected in uploaded ticket tables.
const (
	ColOrderNumber            = "ORDER_NUMBER"
	ColAcceptanceTime         = "ACCEPTANCE_TIME"
	ColCompletionTime         = "COMPLETION_TIME"
	ColCustomerCompletionTime = "CUSTOMER_COMPLETION_TIME"
	ColCustomerNumber         = "CUSTOMER_NUMBER"
	ColOrderType              = "ORDER_TYPE"
	ColProcessingStatus       = "PROCESSING_STATUS"
	ColServiceCategory        = "SERVICE_CATEGORY"
	ColOrderDescription1      = "ORDER_DESCRIPTION_1"
	ColOrderDescription2      = "ORDER_DESCRIPTION_2"
	ColCompletionResult       = "COMPLETION_RESULT_KB"
	ColNoteMaximum            = "NOTE_MAXIMUM"

	// ColProduct is the derived column added by the category filter.
	ColProduct = "PRODUCT"
)

// Pipeline is the fixed processing configuration. It is built once at startup
// and passed by reference into every pipeline component; none of the values
// change during a run.
type Pipeline struct {
	// RequiredColumns must all be present in an upload or the run is rejected.
	RequiredColumns []string
	// OptionalColumns are carried through when present but never required.
	OptionalColumns []string
	// CategoryMapping maps accepted category codes to product names. Codes
	// absent from the map are dropped as expected noise.
	CategoryMapping map[string]string
	// DateLayout is the textual timestamp layout of the input data.
	DateLayout string
	// PhaseLabels are the five chronological story sections, in order.
	PhaseLabels [5]string
	// TextFillValue replaces empty free-text fields.
	TextFillValue string
	// PromptByteBudget bounds the serialized ticket block of one narrative
	// request. Truncation happens on a ticket boundary.
	PromptByteBudget int
}

// DefaultPipeline returns the processing configuration for the standard
// ticket export format.
func DefaultPipeline() *Pipeline {
	return &Pipeline{
		RequiredColumns: []string{
			ColOrderNumber,
			ColAcceptanceTime,
			ColCompletionTime,
			ColCustomerNumber,
			ColServiceCategory,
			ColOrderDescription1,
			ColOrderDescription2,
			ColCompletionResult,
			ColNoteMaximum,
		},
		OptionalColumns: []string{
			ColCustomerCompletionTime,
			ColOrderType,
			ColProcessingStatus,
		},
		CategoryMapping: map[string]string{
			"KAI":  "Broadband",
			"NET":  "Broadband",
			"KAV":  "Voice",
			"KAD":  "TV",
			"GIGA": "GIGA",
			"VOD":  "VOD",
			"HDW":  "Hardware",
		},
		DateLayout: "1/2/2006 15:04",
		PhaseLabels: [5]string{
			"Initial Issue",
			"Follow-ups",
			"Developments",
			"Later Incidents",
			"Recent Events",
		},
		TextFillValue:    "No information available",
		PromptByteBudget: 16 << 10,
	}
}
