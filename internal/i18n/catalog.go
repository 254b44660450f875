package i18n

// builtinCatalog keeps the bot usable without any catalog files on disk.
// YAML files in the i18n directory override these entries key by key.
var builtinCatalog = map[string]map[string]string{
	"en": {
		"deposit.welcome":       "Hello %s! Enter the amount you would like to deposit.",
		"deposit.welcome_anon":  "Hello! Enter the amount you would like to deposit.",
		"deposit.min_amount":    "The minimum deposit amount is %d. Please enter a valid amount.",
		"deposit.ask_phone":     "Amount: %d. Please enter your phone number.",
		"deposit.invalid_phone": "Please enter a valid %d-digit phone number starting with %s.",
		"deposit.summary":       "Deposit %d to account from %s. Reply \"confirm\" to send the payment request, or anything else to cancel.",
		"deposit.success":       "Mpesa Popup sent successfully! Please enter your PIN to complete the transaction.",
		"deposit.failed":        "Error: %s",
		"deposit.cancelled":     "Operation cancelled.",
		"deposit.unknown":       "I did not understand that. Send /start to begin a deposit.",
		"deposit.busy":          "I'm still working on your previous message, please try again in a moment.",
		"keyboard.confirm":      "Confirm ✅",
		"keyboard.cancel":       "Cancel ❌",
		"test.ack":              "Test message received!",
	},
	"sw": {
		"deposit.welcome":       "Habari %s! Weka kiasi unachotaka kuweka.",
		"deposit.welcome_anon":  "Habari! Weka kiasi unachotaka kuweka.",
		"deposit.min_amount":    "Kiwango cha chini cha kuweka ni %d. Tafadhali weka kiasi sahihi.",
		"deposit.ask_phone":     "Kiasi: %d. Tafadhali weka nambari yako ya simu.",
		"deposit.invalid_phone": "Tafadhali weka nambari sahihi ya simu yenye tarakimu %d inayoanza na %s.",
		"deposit.summary":       "Weka %d kutoka %s. Jibu \"confirm\" kutuma ombi la malipo, au kitu kingine chochote kughairi.",
		"deposit.success":       "Ombi la Mpesa limetumwa! Tafadhali weka PIN yako kukamilisha muamala.",
		"deposit.failed":        "Hitilafu: %s",
		"deposit.cancelled":     "Operesheni imeghairiwa.",
		"deposit.unknown":       "Sikuelewa. Tuma /start kuanza kuweka pesa.",
		"deposit.busy":          "Bado nashughulikia ujumbe wako uliopita, tafadhali jaribu tena baadaye kidogo.",
		"keyboard.confirm":      "Thibitisha ✅",
		"keyboard.cancel":       "Ghairi ❌",
		"test.ack":              "Ujumbe wa majaribio umepokelewa!",
	},
}
