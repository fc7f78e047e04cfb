package model

type Supplier struct {
	SupplierID  int64  `json:"supplierId"`
	CompanyName string `json:"companyName"`
}

type NewSupplier struct {
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	Address       string `json:"address,omitempty"`
}

type Category struct {
	CategoryID   int64  `json:"categoryId"`
	ShortName    string `json:"shortName"`
	Subcategory1 string `json:"subcategory1"`
}

type NewCategory struct {
	ShortName    string `json:"shortName"`
	Subcategory1 string `json:"subcategory1"`
}
