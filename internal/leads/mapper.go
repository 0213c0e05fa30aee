package leads

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/webtolk/amocrm-radicalmart/pkg/amocrm"
	"github.com/webtolk/amocrm-radicalmart/pkg/i18n"
	"github.com/webtolk/amocrm-radicalmart/pkg/radicalmart"
)

const productDivider = "\n ==== \n\n"

// Params are the integration options that shape the CRM payloads.
type Params struct {
	PipelineID     int64
	LeadTagID      int64
	NoteOrderItems bool
	SiteRoot       string
	// FieldLabels maps an extra contact field name to its configured label.
	FieldLabels map[string]string
}

// Mapper turns RadicalMart orders into AmoCRM lead and note payloads.
type Mapper struct {
	tr *i18n.Translator
}

func NewMapper(tr *i18n.Translator) *Mapper {
	if tr == nil {
		tr = i18n.MustNew("")
	}
	return &Mapper{tr: tr}
}

// BuildLead maps an order onto a lead with one embedded contact.
func (m *Mapper) BuildLead(order radicalmart.Order, p Params) amocrm.Lead {
	lead := amocrm.Lead{
		CreatedBy:  0,
		Name:       order.Title,
		PipelineID: p.PipelineID,
		Price:      order.Total.Final.IntPart(),
		Embedded: amocrm.LeadEmbedded{
			Contacts: []amocrm.Contact{buildContact(order.Customer.Contacts)},
		},
	}
	if p.LeadTagID > 0 {
		lead.Embedded.Tags = []amocrm.Tag{{ID: p.LeadTagID}}
	}
	return lead
}

func buildContact(c radicalmart.CustomerContacts) amocrm.Contact {
	name := c.FirstName
	if c.LastName != "" {
		name += " " + c.LastName
	}
	contact := amocrm.Contact{
		Name:      name,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
	if c.Phone != "" {
		contact.CustomFieldsValues = append(contact.CustomFieldsValues, workField(amocrm.FieldCodePhone, c.Phone))
	}
	if c.Email != "" {
		contact.CustomFieldsValues = append(contact.CustomFieldsValues, workField(amocrm.FieldCodeEmail, c.Email))
	}
	return contact
}

func workField(code, value string) amocrm.CustomFieldValue {
	return amocrm.CustomFieldValue{
		FieldCode: code,
		Values:    []amocrm.FieldValue{{EnumCode: amocrm.EnumCodeWork, Value: value}},
	}
}

// BuildNotes renders the notes attached to a freshly created lead. The order is
// fixed: total, shipping, payment, extra contacts, products, order note, admin link.
func (m *Mapper) BuildNotes(order radicalmart.Order, p Params) []amocrm.Note {
	texts := []string{m.totalNote(order)}
	if order.Shipping != nil {
		texts = append(texts, m.methodNote(i18n.KeyShipping, *order.Shipping, " "))
	}
	if order.Payment != nil {
		texts = append(texts, m.methodNote(i18n.KeyPayment, *order.Payment, "\n"))
	}
	if text, ok := m.contactsNote(order.Contacts, p.FieldLabels); ok {
		texts = append(texts, text)
	}
	if len(order.Products) > 0 && p.NoteOrderItems {
		texts = append(texts, m.productsNote(order))
	}
	if order.Note != "" {
		texts = append(texts, m.tr.T(i18n.KeyOrderNote)+order.Note)
	}
	texts = append(texts, m.tr.Format(i18n.KeyLinkToOrder, AdminOrderURL(p.SiteRoot, order.ID)))

	notes := make([]amocrm.Note, 0, len(texts))
	for _, text := range texts {
		notes = append(notes, amocrm.NewCommonNote(text))
	}
	return notes
}

// BuildStatusNote renders the note appended when the order status changes.
func (m *Mapper) BuildStatusNote(order radicalmart.Order) amocrm.Note {
	return amocrm.NewCommonNote(m.tr.Format(i18n.KeyUpdateLeadNote, order.Number, order.Status.Title))
}

func (m *Mapper) totalNote(order radicalmart.Order) string {
	var b strings.Builder
	b.WriteString(m.tr.T(i18n.KeyTotalPrepend))
	b.WriteString(order.Total.Final.String())
	b.WriteString(m.tr.T(i18n.KeyTotalAppend))
	b.WriteString("\n")
	b.WriteString(m.tr.T(i18n.KeyStatus))
	b.WriteString(": ")
	b.WriteString(order.Status.Title)
	b.WriteString("\n")
	return b.String()
}

// methodNote renders a shipping or payment note. Every notification entry is
// followed by sep; entries with empty text are skipped.
func (m *Mapper) methodNote(headerKey string, method radicalmart.Method, sep string) string {
	var b strings.Builder
	b.WriteString(m.tr.T(headerKey))
	b.WriteString(": ")
	b.WriteString(method.DisplayTitle())
	b.WriteString("\n")

	for _, key := range method.Notification.Keys() {
		raw, _ := method.Notification.Raw(key)
		if radicalmart.IsEmpty(raw) {
			continue
		}
		if !radicalmart.IsNumericKey(key) {
			b.WriteString(m.tr.T(key))
			b.WriteString(": ")
		}
		b.WriteString(radicalmart.Text(raw))
		b.WriteString(sep)
	}
	return b.String()
}

func (m *Mapper) contactsNote(contacts radicalmart.OrderedMap, overrides map[string]string) (string, bool) {
	var b strings.Builder
	b.WriteString(m.tr.T(i18n.KeyContacts))
	b.WriteString("\n")

	written := 0
	for _, key := range contacts.Keys() {
		value, ok := contacts.String(key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		b.WriteString(m.contactLabel(key, overrides))
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
		written++
	}
	return b.String(), written > 0
}

// contactLabel resolves a field label: configured override, then the
// COM_RADICALMART_<KEY> constant, then the raw key.
func (m *Mapper) contactLabel(key string, overrides map[string]string) string {
	if label := strings.TrimSpace(overrides[key]); label != "" {
		return m.tr.T(label)
	}
	if constant := i18n.ContactLabelPrefix + key; m.tr.Has(constant) {
		return m.tr.T(constant)
	}
	return key
}

func (m *Mapper) productsNote(order radicalmart.Order) string {
	var b strings.Builder
	b.WriteString(m.tr.T(i18n.KeyOrderItems))
	b.WriteString("\n")
	b.WriteString(m.tr.Format(i18n.KeyTotalQuantity, order.Total.Quantity))
	b.WriteString("\n")
	b.WriteString(m.tr.Format(i18n.KeyTotalProducts, order.Total.Products))
	b.WriteString("\n")

	for _, product := range order.Products {
		b.WriteString(m.tr.T(i18n.KeyItemProduct))
		b.WriteString(product.Title)
		if product.Code != "" {
			b.WriteString(" (" + product.Code + ")")
		}
		b.WriteString("\n")
		b.WriteString(m.tr.T(i18n.KeyItemQuantity))
		b.WriteString(product.Order.QuantityText())
		b.WriteString("\n")
		b.WriteString(m.tr.T(i18n.KeyItemPrice))
		b.WriteString(product.Price.FinalString)
		b.WriteString("\n")
		b.WriteString(productDivider)
	}
	return b.String()
}

// AdminOrderURL links to the order edit screen of the site administrator panel.
func AdminOrderURL(siteRoot string, orderID int64) string {
	query := fmt.Sprintf("option=com_radicalmart&view=order&layout=edit&id=%d", orderID)
	root := strings.TrimSpace(siteRoot)

	u, err := url.Parse(root)
	if err != nil || u.Host == "" {
		return strings.TrimRight(root, "/") + "/administrator/index.php?" + query
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/administrator/index.php"
	u.RawPath = ""
	u.RawQuery = query
	u.Fragment = ""
	return u.String()
}
