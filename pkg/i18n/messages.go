package i18n

import "golang.org/x/text/language"

// Language constants referenced by the lead mapper and the admin field.
const (
	KeyTotalPrepend    = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_TOTAL_API_PREPEND"
	KeyTotalAppend     = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_TOTAL_API_APPEND"
	KeyOrderItems      = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_ITEMS"
	KeyTotalQuantity   = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_TOTAL_QUANTITY"
	KeyTotalProducts   = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_TOTAL_PRODUCTS"
	KeyItemProduct     = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_ITEMS_PRODUCT"
	KeyItemQuantity    = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_ITEMS_QUANTITY"
	KeyItemPrice       = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_ITEMS_PRICE"
	KeyOrderNote       = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_ORDER_NOTE"
	KeyLinkToOrder     = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_LINK_TO_ORDER"
	KeyUpdateLeadNote  = "PLG_WTAMOCRMRADICALMART_AMOCRM_NOTE_UPDATE_LEAD_NOTE"
	KeyLeadLinkField   = "PLG_WTAMOCRMRADICALMART_FIELD_AMOCRMLEADLINK"
	KeyStatus          = "COM_RADICALMART_STATUS"
	KeyShipping        = "COM_RADICALMART_SHIPPING"
	KeyPayment         = "COM_RADICALMART_PAYMENT"
	KeyContacts        = "COM_RADICALMART_CONTACTS"
	ContactLabelPrefix = "COM_RADICALMART_"
)

var dictionaries = map[language.Tag]map[string]string{
	language.English: {
		KeyTotalPrepend:   "Order total: ",
		KeyTotalAppend:    " RUB",
		KeyOrderItems:     "Order items",
		KeyTotalQuantity:  "Total quantity: %v",
		KeyTotalProducts:  "Products in order: %v",
		KeyItemProduct:    "Product: ",
		KeyItemQuantity:   "Quantity: ",
		KeyItemPrice:      "Price: ",
		KeyOrderNote:      "Order note: ",
		KeyLinkToOrder:    "Order in the site admin panel: %s",
		KeyUpdateLeadNote: "Order №%s: status changed to %s",
		KeyLeadLinkField:  "AmoCRM lead #%s",
		KeyStatus:         "Status",
		KeyShipping:       "Shipping",
		KeyPayment:        "Payment",
		KeyContacts:       "Contacts",

		"COM_RADICALMART_FIRST_NAME":  "First name",
		"COM_RADICALMART_SECOND_NAME": "Middle name",
		"COM_RADICALMART_LAST_NAME":   "Last name",
		"COM_RADICALMART_EMAIL":       "Email",
		"COM_RADICALMART_PHONE":       "Phone",
		"COM_RADICALMART_CITY":        "City",
		"COM_RADICALMART_ADDRESS":     "Address",
		"COM_RADICALMART_ZIP":         "Postal code",
		"COM_RADICALMART_COMMENT":     "Comment",
	},
	language.Russian: {
		KeyTotalPrepend:   "Сумма заказа: ",
		KeyTotalAppend:    " руб.",
		KeyOrderItems:     "Состав заказа",
		KeyTotalQuantity:  "Всего единиц товара: %v",
		KeyTotalProducts:  "Товаров в заказе: %v",
		KeyItemProduct:    "Товар: ",
		KeyItemQuantity:   "Количество: ",
		KeyItemPrice:      "Цена: ",
		KeyOrderNote:      "Примечание к заказу: ",
		KeyLinkToOrder:    "Заказ в панели управления сайтом: %s",
		KeyUpdateLeadNote: "Заказ №%s: статус изменён на %s",
		KeyLeadLinkField:  "Сделка AmoCRM #%s",
		KeyStatus:         "Статус",
		KeyShipping:       "Доставка",
		KeyPayment:        "Оплата",
		KeyContacts:       "Контакты",

		"COM_RADICALMART_FIRST_NAME":  "Имя",
		"COM_RADICALMART_SECOND_NAME": "Отчество",
		"COM_RADICALMART_LAST_NAME":   "Фамилия",
		"COM_RADICALMART_EMAIL":       "Email",
		"COM_RADICALMART_PHONE":       "Телефон",
		"COM_RADICALMART_CITY":        "Город",
		"COM_RADICALMART_ADDRESS":     "Адрес",
		"COM_RADICALMART_ZIP":         "Индекс",
		"COM_RADICALMART_COMMENT":     "Комментарий",
	},
}
