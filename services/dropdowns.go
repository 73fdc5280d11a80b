package services

// TaxRateOptions are the GST slabs offered when editing a document.
var TaxRateOptions = []int{0, 5, 12, 18, 28}

// PaymentMethods are the accepted values of payments.method.
var PaymentMethods = []string{
	"bank_transfer",
	"upi",
	"cheque",
	"cash",
	"card",
}

// ExpenseCategories are suggested values for expenses.category.
var ExpenseCategories = []string{
	"Software",
	"Hosting",
	"Contractors",
	"Office",
	"Travel",
	"Marketing",
	"Other",
}
