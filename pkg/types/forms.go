package types

// Submissions are decoded into string fields so that missing and malformed
// values can be told apart during validation.

type DonorForm struct {
	Name           string `form:"nombre"`
	Classification string `form:"tipo_donante"`
	City           string `form:"ciudad"`
	Address        string `form:"direccion"`
	Phone          string `form:"telefono"`
	Email          string `form:"email"`
	Status         string `form:"estado"`
	Notes          string `form:"notas"`
	Latitude       string `form:"latitud"`
	Longitude      string `form:"longitud"`
}

type DonationForm struct {
	Donor       string `form:"donante"`
	Quantity    string `form:"cantidad"`
	ArrivalDate string `form:"fecha_llegada"`
	FoodType    string `form:"tipo_alimento"`
	Destination string `form:"destino"`

	Perishable    string `form:"perecible"`
	NonPerishable string `form:"no_perecibles"`
	Condition     string `form:"estado_alimento"`
	ExpiryDate    string `form:"fecha_caducidad"`

	Captcha string `form:"g-recaptcha-response"`
}

func (f DonationForm) Classification() FoodClassificationForm {
	return FoodClassificationForm{
		Perishable:    f.Perishable,
		NonPerishable: f.NonPerishable,
		Condition:     f.Condition,
		ExpiryDate:    f.ExpiryDate,
	}
}

type FoodClassificationForm struct {
	Perishable    string `form:"perecible"`
	NonPerishable string `form:"no_perecibles"`
	Condition     string `form:"estado_alimento"`
	ExpiryDate    string `form:"fecha_caducidad"`
}

// Supplied reports whether the submitter filled in any classification field.
func (f FoodClassificationForm) Supplied() bool {
	return f.Perishable != "" || f.NonPerishable != "" || f.Condition != "" || f.ExpiryDate != ""
}

type LowIncomeForm struct {
	City     string `form:"ciudad"`
	Donation string `form:"donacion"`
}

type ZooForm struct {
	Species        string `form:"animales"`
	Workers        string `form:"trabajadores"`
	AnimalCategory string `form:"tipo_animal"`
	Donation       string `form:"donacion"`
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type SignupForm struct {
	Username          string `form:"username"`
	Email             string `form:"email"`
	TemporaryPassword string `form:"password"`
}
