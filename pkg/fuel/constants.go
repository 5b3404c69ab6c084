package fuel

const (
	// DefaultPumpCount is the number of physical pumps on a station forecourt.
	DefaultPumpCount = 12

	SubsidyTypeFuel = "Fuel Subsidy"
	SubsidyTypeNone = "No Fuel Subsidy"

	operationActivate = "activate"

	operationStatusOK       = "ok"
	operationStatusRejected = "rejected"

	transactionIDPrefix = "TXN"

	messageEligible          = "Eligible for fuel subsidy"
	messageIneligible        = "Not eligible for fuel subsidy"
	messageInvalidBarcode    = "Invalid barcode"
	messageNoBarcode         = "No barcode provided"
	messageNoSubsidy         = "No subsidy"
	messageActivationFailed  = "Failed to activate pump. Please try again."
	messageInvalidAmount     = "Amount must be greater than zero"
	messageInvalidPumpNumber = "Unknown pump number"
)
