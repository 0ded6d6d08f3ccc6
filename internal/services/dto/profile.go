package dto

// CompleteProfileRequest - запрос завершения профиля.
// Явный allow-list полей: произвольные ключи из тела запроса на аккаунт
// не переносятся (неизвестные поля отклоняются на уровне JSON-декодера).
// Поля-указатели: nil означает "не менять", переданное значение заменяет
// прежнее целиком.
type CompleteProfileRequest struct {
	Name               *string                `json:"name" binding:"omitempty,min=1,max=150"`
	Country            *string                `json:"country" binding:"omitempty,min=2,max=100"`
	Phone              *string                `json:"phone" binding:"omitempty,min=8,max=20"`
	PostalCode         *string                `json:"postal_code" binding:"omitempty,max=20"`
	BankName           *string                `json:"bank_name" binding:"omitempty,max=150"`
	BankAccountNumber  *string                `json:"bank_account_number" binding:"omitempty,max=64"`
	BankDetails        map[string]interface{} `json:"bank_details" binding:"omitempty"`
	VerificationDocURL *string                `json:"verification_doc_url" binding:"omitempty,url"`
}

// IsEmpty сообщает, что в запросе нет ни одного поля
func (r *CompleteProfileRequest) IsEmpty() bool {
	return r.Name == nil &&
		r.Country == nil &&
		r.Phone == nil &&
		r.PostalCode == nil &&
		r.BankName == nil &&
		r.BankAccountNumber == nil &&
		r.BankDetails == nil &&
		r.VerificationDocURL == nil
}
