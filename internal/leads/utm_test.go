package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtolk/amocrm-radicalmart/pkg/amocrm"
)

func TestEnrichUTMSingleCookie(t *testing.T) {
	lead := amocrm.Lead{Name: "x"}

	EnrichUTM(&lead, map[string]string{"utm_source": "google%20ads"})

	require.Len(t, lead.CustomFieldsValues, 1)
	assert.Equal(t, amocrm.CustomFieldValue{
		FieldCode: "UTM_SOURCE",
		Values:    []amocrm.FieldValue{{Value: "google ads"}},
	}, lead.CustomFieldsValues[0])
}

func TestEnrichUTMFollowsFixedOrderAndSkipsEmpty(t *testing.T) {
	lead := amocrm.Lead{CustomFieldsValues: []amocrm.CustomFieldValue{{FieldCode: "UTM_SOURCE", Values: []amocrm.FieldValue{{Value: "existing"}}}}}

	EnrichUTM(&lead, map[string]string{
		"_ym_uid":      "123",
		"utm_source":   "newsletter",
		"utm_medium":   "",
		"gclid":        "abc",
		"unrelated":    "ignored",
		"utm_referrer": "https%3A%2F%2Fexample.com%2F",
	})

	codes := make([]string, 0, len(lead.CustomFieldsValues))
	for _, f := range lead.CustomFieldsValues {
		codes = append(codes, f.FieldCode)
	}
	assert.Equal(t, []string{"UTM_SOURCE", "UTM_SOURCE", "GCLID", "_YM_UID", "UTM_REFERRER"}, codes)
	assert.Equal(t, "https://example.com/", lead.CustomFieldsValues[4].Values[0].Value)
}

func TestEnrichUTMKeepsUndecodableValue(t *testing.T) {
	lead := amocrm.Lead{}

	EnrichUTM(&lead, map[string]string{"roistat": "50%off"})

	require.Len(t, lead.CustomFieldsValues, 1)
	assert.Equal(t, "50%off", lead.CustomFieldsValues[0].Values[0].Value)
}

func TestEnrichUTMNilSafe(t *testing.T) {
	EnrichUTM(nil, map[string]string{"utm_source": "x"})
	lead := amocrm.Lead{}
	EnrichUTM(&lead, nil)
	assert.Empty(t, lead.CustomFieldsValues)
}

func TestTrackingKeysCount(t *testing.T) {
	assert.Len(t, TrackingKeys, 19)
}
