package dto

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (i *LoginInput) Normalize() {
	i.Email = NormalizeEmail(i.Email)
}
