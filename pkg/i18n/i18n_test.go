package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglishDefaults(t *testing.T) {
	tr, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "en", tr.Language())
	assert.Equal(t, "Status", tr.T(KeyStatus))
	assert.Equal(t, "Order №A-100: status changed to Paid", tr.Format(KeyUpdateLeadNote, "A-100", "Paid"))
	assert.Equal(t, "AmoCRM lead #777", tr.Format(KeyLeadLinkField, int64(777)))
	assert.Equal(t, "AmoCRM lead #12345678", tr.Format(KeyLeadLinkField, int64(12345678)))
	assert.Equal(t, "Total quantity: 1500", tr.Format(KeyTotalQuantity, int64(1500)))
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	tr := MustNew("en-GB")

	assert.True(t, tr.Has("com_radicalmart_city"))
	assert.Equal(t, "City", tr.T("com_radicalmart_city"))
}

func TestUnknownKeysPassThrough(t *testing.T) {
	tr := MustNew("en")

	assert.False(t, tr.Has("COM_X_Y"))
	assert.Equal(t, "COM_X_Y", tr.T("COM_X_Y"))
	assert.Equal(t, "plain 5", tr.Format("plain %s", 5))
}

func TestRussianCatalog(t *testing.T) {
	tr := MustNew("ru-RU")

	assert.Equal(t, "ru", tr.Language())
	assert.Equal(t, "Доставка", tr.T(KeyShipping))
}

func TestUnsupportedLanguageFallsBackToEnglish(t *testing.T) {
	tr := MustNew("de")
	assert.Equal(t, "Payment", tr.T(KeyPayment))
}

func TestInvalidLanguage(t *testing.T) {
	_, err := New("!!")
	require.Error(t, err)
}

func TestDictionariesShareKeys(t *testing.T) {
	en := MustNew("en")
	ru := MustNew("ru")
	for key := range en.keys {
		assert.Truef(t, ru.Has(key), "russian catalog missing %s", key)
	}
}
