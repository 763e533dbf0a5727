package request

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Language  string `json:"language"`
	TutorName string `json:"tutor_name"`
}
