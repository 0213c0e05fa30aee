package amocrm

// Field codes and enum codes used by the lead payload.
const (
	FieldCodePhone = "PHONE"
	FieldCodeEmail = "EMAIL"
	EnumCodeWork   = "WORK"

	NoteTypeCommon = "common"

	EntityLeads = "leads"
)

// Lead is the payload of one entry in POST /api/v4/leads/complex.
type Lead struct {
	CreatedBy          int64              `json:"created_by"`
	Name               string             `json:"name"`
	PipelineID         int64              `json:"pipeline_id,omitempty"`
	Price              int64              `json:"price"`
	Embedded           LeadEmbedded       `json:"_embedded"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values,omitempty"`
}

type LeadEmbedded struct {
	Contacts []Contact `json:"contacts,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`
}

// Contact is embedded into a lead and created together with it.
type Contact struct {
	Name               string             `json:"name"`
	FirstName          string             `json:"first_name,omitempty"`
	LastName           string             `json:"last_name,omitempty"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values,omitempty"`
}

type CustomFieldValue struct {
	FieldCode string       `json:"field_code"`
	Values    []FieldValue `json:"values"`
}

type FieldValue struct {
	EnumCode string `json:"enum_code,omitempty"`
	Value    string `json:"value"`
}

type Tag struct {
	ID int64 `json:"id"`
}

// Note is a free-text note attached to an entity.
type Note struct {
	CreatedBy int64      `json:"created_by"`
	NoteType  string     `json:"note_type"`
	Params    NoteParams `json:"params"`
}

type NoteParams struct {
	Text string `json:"text"`
}

// NewCommonNote builds a system-authored text note.
func NewCommonNote(text string) Note {
	return Note{CreatedBy: 0, NoteType: NoteTypeCommon, Params: NoteParams{Text: text}}
}

// CreatedLead is one entry of the leads/complex response.
type CreatedLead struct {
	ID        int64    `json:"id"`
	ContactID int64    `json:"contact_id,omitempty"`
	CompanyID int64    `json:"company_id,omitempty"`
	RequestID []string `json:"request_id,omitempty"`
	Merged    bool     `json:"merged,omitempty"`
}

// Account is the subset of GET /api/v4/account the bridge reads.
type Account struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}
