package leadlink

import (
	"encoding/xml"
	"strings"
)

// FieldName is the name of the lead link field in the order form.
const FieldName = "amocrmleadlink"

var orderForms = map[string]struct{}{
	"order":                 {},
	"com_radicalmart.order": {},
}

type formXML struct {
	XMLName xml.Name  `xml:"form"`
	Fields  fieldsXML `xml:"fields"`
}

type fieldsXML struct {
	Name     string      `xml:"name,attr"`
	Fieldset fieldsetXML `xml:"fieldset"`
}

type fieldsetXML struct {
	Name  string   `xml:"name,attr"`
	Label string   `xml:"label,attr"`
	Field fieldXML `xml:"field"`
}

type fieldXML struct {
	Type           string `xml:"type,attr"`
	Name           string `xml:"name,attr"`
	AddFieldPrefix string `xml:"addfieldprefix,attr"`
}

// FormExtension returns the form fragment that adds the lead link field to the
// order form, or nil for any other form.
func FormExtension(formName string) []byte {
	if _, ok := orderForms[strings.ToLower(strings.TrimSpace(formName))]; !ok {
		return nil
	}
	fragment := formXML{
		Fields: fieldsXML{
			Name: "plugins",
			Fieldset: fieldsetXML{
				Name:  "wtamocrmradicalmart",
				Label: "AmoCRM",
				Field: fieldXML{
					Type:           FieldName,
					Name:           FieldName,
					AddFieldPrefix: `Joomla\Plugin\RadicalMart\Wtamocrmradicalmart\Field`,
				},
			},
		},
	}
	out, err := xml.MarshalIndent(fragment, "", "  ")
	if err != nil {
		return nil
	}
	return append([]byte(xml.Header), out...)
}
