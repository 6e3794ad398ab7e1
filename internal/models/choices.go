package models

// Row status constants (every table carries one; lists only see ACTIVE rows)
const (
	StatusActive   = "ACTIVE"
	StatusDraft    = "DRAFT"
	StatusInactive = "INACTIVE"
	StatusRemoved  = "REMOVED"
)

// User kind constants
const (
	KindAdmin      = "ADMIN"
	KindCustomer   = "CUSTOMER"
	KindManager    = "MANAGER"
	KindStaff      = "STAFF"
	KindSuperAdmin = "SUPER_ADMIN"
	KindOther      = "OTHER"
)

// User gender constants
const (
	GenderFemale  = "FEMALE"
	GenderMale    = "MALE"
	GenderUnknown = "UNKNOWN"
)

// Connection type constants
const (
	ConnectionDHCP   = "DHCP"
	ConnectionStatic = "STATIC"
	ConnectionPPPoE  = "PPPoE"
)

// Payment method constants
const (
	MethodBankTransfer  = "BANK_TRANSFER"
	MethodBkash         = "BKASH"
	MethodCash          = "CASH"
	MethodNagad         = "NAGAD"
	MethodMobileBanking = "MOBILE_BANKING"
	MethodOnlinePayment = "ONLINE_PAYMENT"
	MethodRocket        = "ROCKET"
	MethodOther         = "OTHER"
)

// Months is the full set of billing month values, in calendar order.
var Months = []string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

// PaymentMethods is the full set of accepted payment channels.
var PaymentMethods = []string{
	MethodBankTransfer, MethodBkash, MethodCash, MethodNagad,
	MethodMobileBanking, MethodOnlinePayment, MethodRocket, MethodOther,
}

// ConnectionTypes is the full set of customer connection types.
var ConnectionTypes = []string{ConnectionDHCP, ConnectionStatic, ConnectionPPPoE}

// UserKinds is the full set of user kinds.
var UserKinds = []string{
	KindAdmin, KindCustomer, KindManager, KindStaff, KindSuperAdmin, KindOther,
}

// ValidMonth reports whether m is one of the twelve billing month values.
func ValidMonth(m string) bool {
	return contains(Months, m)
}

// ValidPaymentMethod reports whether m is an accepted payment channel.
func ValidPaymentMethod(m string) bool {
	return contains(PaymentMethods, m)
}

// ValidConnectionType reports whether t is a known connection type.
func ValidConnectionType(t string) bool {
	return contains(ConnectionTypes, t)
}

// ValidUserKind reports whether k is a known user kind.
func ValidUserKind(k string) bool {
	return contains(UserKinds, k)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
