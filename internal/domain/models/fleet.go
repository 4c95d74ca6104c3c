package models

// Vehicle is one bus of the operator's fleet.
type Vehicle struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Plate     string `json:"plate"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Capacity  int    `json:"capacity"`
	Status    string `json:"status"`
}

// Driver is an operator assigned to trips.
type Driver struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	License   string `json:"license"`
	Status    string `json:"status"`
}
