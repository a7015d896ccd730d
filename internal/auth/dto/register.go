package dto

import "strings"

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize applies the email policy: trimmed, lower-cased. Uniqueness is
// enforced against the normalized form.
func (i *RegisterInput) Normalize() {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = NormalizeEmail(i.Email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
