package types

type NavbarData struct {
	IsAuthenticated bool
	IsStaff         bool
	UserID          string
	Username        string
	UserEmail       string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type FlashSetter interface {
	SetFlash(flash Flash)
}

type Flash struct {
	Notice  string
	Warning string
	Error   string
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
	Flash  Flash
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

func (d *BasePageData) SetFlash(flash Flash) {
	if d.Flash.Error == "" {
		d.Flash.Error = flash.Error
	}
	if d.Flash.Notice == "" {
		d.Flash.Notice = flash.Notice
	}
	if d.Flash.Warning == "" {
		d.Flash.Warning = flash.Warning
	}
}

// FormState carries what a form page needs to show rejected input back.
type FormState struct {
	Action       string
	FieldErrors  map[string]string
	RecordErrors []string
}

func (f *FormState) ApplyErrors(verrs ValidationErrors) {
	f.FieldErrors = verrs.Fields()
	f.RecordErrors = verrs.Record()
}

type LoginPageData struct {
	BasePageData
	Username string
}

type SignupPageData struct {
	BasePageData
	FormState
	Form SignupForm
}

type DashboardCounts struct {
	Donations int
	Donors    int
	LowIncome int
	Zoos      int
}

type HomePageData struct {
	BasePageData
	Counts DashboardCounts
}

type DonationListPageData struct {
	BasePageData
	Donations []*Donation
}

type DonationFormPageData struct {
	BasePageData
	FormState
	Form             DonationForm
	DonorChoices     []Choice
	FoodTypes        []string
	Destinations     []Choice
	TriStates        []Choice
	Conditions       []Choice
	RecaptchaSiteKey string
}

type DonationDeletePageData struct {
	BasePageData
	Donation *Donation
}

type DonorListPageData struct {
	BasePageData
	Donors          []DonorWithTotals
	Classifications []Choice
	Statuses        []Choice
	Filter          DonorFilter
}

type DonorFormPageData struct {
	BasePageData
	FormState
	Form            DonorForm
	Donor           *Donor
	Classifications []Choice
	Statuses        []Choice
}

type DonorDetailPageData struct {
	BasePageData
	Donor     *Donor
	Donations []*Donation
	Totals    DonorTotals
}

type DonorDeletePageData struct {
	BasePageData
	Donor  *Donor
	Totals DonorTotals
}

type LowIncomeListPageData struct {
	BasePageData
	Allocations []*LowIncomeAllocation
}

type LowIncomeFormPageData struct {
	BasePageData
	FormState
	Form            LowIncomeForm
	Cities          []string
	DonationChoices []Choice
}

type LowIncomeDeletePageData struct {
	BasePageData
	Allocation *LowIncomeAllocation
}

type ZooListPageData struct {
	BasePageData
	Allocations []*ZooAllocation
}

type ZooFormPageData struct {
	BasePageData
	FormState
	Form            ZooForm
	Categories      []Choice
	DonationChoices []Choice
}

type ZooDeletePageData struct {
	BasePageData
	Allocation *ZooAllocation
}
