package leads

import (
	"net/url"
	"strings"

	"github.com/webtolk/amocrm-radicalmart/pkg/amocrm"
)

// TrackingKeys are the cookies copied onto the lead, in the order they are appended.
var TrackingKeys = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_content",
	"utm_term",
	"fbclid",
	"yclid",
	"gclid",
	"gclientid",
	"from",
	"openstat_source",
	"openstat_ad",
	"openstat_campaign",
	"openstat_service",
	"referrer",
	"roistat",
	"_ym_counter",
	"_ym_uid",
	"utm_referrer",
}

// EnrichUTM appends one custom field per non-empty tracking cookie. Values are
// URL-decoded; a value that fails to decode is used as is. Fields already on the
// lead are not deduplicated.
func EnrichUTM(lead *amocrm.Lead, cookies map[string]string) {
	if lead == nil || len(cookies) == 0 {
		return
	}
	for _, key := range TrackingKeys {
		raw, ok := cookies[key]
		if !ok {
			continue
		}
		value, err := url.QueryUnescape(raw)
		if err != nil {
			value = raw
		}
		if value == "" {
			continue
		}
		lead.CustomFieldsValues = append(lead.CustomFieldsValues, amocrm.CustomFieldValue{
			FieldCode: strings.ToUpper(key),
			Values:    []amocrm.FieldValue{{Value: value}},
		})
	}
}
