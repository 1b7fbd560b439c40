package models

// AdminIdentity — подтвержденная учетная запись администратора
type AdminIdentity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
