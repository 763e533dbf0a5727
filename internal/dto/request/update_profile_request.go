package request

// UpdateProfileRequest carries partial profile edits. Nil fields are left
// untouched.
type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=30"`
	Language  *string `json:"language"`
	TutorName *string `json:"tutor_name"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
}
